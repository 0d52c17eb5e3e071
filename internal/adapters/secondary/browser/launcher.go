package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// ErrNoBrowser is returned when no candidate browser can be found
var ErrNoBrowser = errors.New("no supported browser found on this system")

// Browser describes one way of opening a URL on the current platform
type Browser struct {
	Name    string
	Command string
	Args    func(url string) []string
}

// Launcher implements the BrowserLauncher interface
type Launcher struct {
	browsers []Browser
	lookPath func(file string) (string, error)
	start    func(name string, args ...string) error
}

// NewLauncher creates a launcher for the platform defaults
func NewLauncher() *Launcher {
	return NewLauncherFor("default")
}

// NewLauncherFor creates a launcher that tries the named browser first.
// "default" or an empty name keeps the platform order.
func NewLauncherFor(preferred string) *Launcher {
	return &Launcher{
		browsers: preferBrowser(platformBrowsers(runtime.GOOS), preferred),
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

// Launch opens the presentation URL unless noOpen is set
func (l *Launcher) Launch(rawURL string, noOpen bool) error {
	if noOpen {
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	browser, err := l.selectBrowser()
	if err != nil {
		return fmt.Errorf("browser selection: %w", err)
	}

	if err := l.start(browser.Command, browser.Args(u.String())...); err != nil {
		return fmt.Errorf("launching %s: %w", browser.Name, err)
	}
	return nil
}

// Detect returns the name of the browser Launch would use
func (l *Launcher) Detect() (string, error) {
	browser, err := l.selectBrowser()
	if err != nil {
		return "", err
	}
	return browser.Name, nil
}

// selectBrowser returns the first candidate whose executable is on PATH
func (l *Launcher) selectBrowser() (*Browser, error) {
	for i := range l.browsers {
		if _, err := l.lookPath(l.browsers[i].Command); err == nil {
			return &l.browsers[i], nil
		}
	}
	return nil, ErrNoBrowser
}

// startDetached starts the command without waiting for the browser to exit
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204 - command comes from the fixed platform table
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// preferBrowser moves candidates matching name to the front
func preferBrowser(browsers []Browser, name string) []Browser {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "default" {
		return browsers
	}

	ordered := make([]Browser, 0, len(browsers))
	var rest []Browser
	for _, b := range browsers {
		if strings.ToLower(b.Name) == name {
			ordered = append(ordered, b)
		} else {
			rest = append(rest, b)
		}
	}
	return append(ordered, rest...)
}

func urlOnly(url string) []string { return []string{url} }

func macApp(app string) func(string) []string {
	return func(url string) []string { return []string{"-a", app, url} }
}

func windowsStart(target string) func(string) []string {
	return func(url string) []string {
		if target == "" {
			return []string{"/c", "start", "", url}
		}
		return []string{"/c", "start", "", target, url}
	}
}

// platformBrowsers lists launch candidates for goos in preference order
func platformBrowsers(goos string) []Browser {
	switch goos {
	case "darwin":
		return []Browser{
			{Name: "Default", Command: "open", Args: urlOnly},
			{Name: "Chrome", Command: "open", Args: macApp("Google Chrome")},
			{Name: "Safari", Command: "open", Args: macApp("Safari")},
			{Name: "Firefox", Command: "open", Args: macApp("Firefox")},
		}
	case "linux", "freebsd", "openbsd":
		return []Browser{
			{Name: "Default", Command: "xdg-open", Args: urlOnly},
			{Name: "Chrome", Command: "google-chrome", Args: urlOnly},
			{Name: "Chromium", Command: "chromium", Args: urlOnly},
			{Name: "Firefox", Command: "firefox", Args: urlOnly},
		}
	case "windows":
		return []Browser{
			{Name: "Default", Command: "cmd", Args: windowsStart("")},
			{Name: "Chrome", Command: "cmd", Args: windowsStart("chrome")},
			{Name: "Edge", Command: "cmd", Args: windowsStart("msedge")},
		}
	default:
		return nil
	}
}

var _ ports.BrowserLauncher = (*Launcher)(nil)
