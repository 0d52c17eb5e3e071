package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fredcamaral/stepdeck/internal/domain/ports"
	"github.com/fredcamaral/stepdeck/internal/logging"
)

// FSWatcher watches deck files with fsnotify. The parent directory is
// watched rather than the file so editors that save by rename are seen.
// Bursts of events are collapsed into one after the debounce period, and
// writes that leave the content unchanged are dropped.
type FSWatcher struct {
	debounce time.Duration
	logger   *logging.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
	stopCh  chan struct{}
}

// NewFSWatcher creates a new fsnotify-based file watcher
func NewFSWatcher(debounce time.Duration, logger *logging.Logger) *FSWatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FSWatcher{
		debounce: debounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

var _ ports.FileWatcher = (*FSWatcher)(nil)

// Watch starts watching path. The returned channel is closed when ctx is
// done or the watcher is stopped.
func (w *FSWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil, errors.New("watcher is stopped")
	}

	checksum, err := fileChecksum(absPath)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}

	events := make(chan ports.FileChangeEvent, 10)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer close(events)
		defer fsw.Close()
		w.loop(ctx, fsw, absPath, checksum, events)
	}()

	return events, nil
}

// Stop stops every watch started by this watcher
func (w *FSWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

func (w *FSWatcher) loop(ctx context.Context, fsw *fsnotify.Watcher, path, checksum string, out chan<- ports.FileChangeEvent) {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending ports.ChangeType
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error on %s: %v", path, err)

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}

			pending = changeType(ev.Op)
			w.logger.Debug("%s %s", ev.Op, path)

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil

			kind := pending
			sum, err := fileChecksum(path)
			switch {
			case errors.Is(err, os.ErrNotExist):
				kind = ports.Deleted
				checksum = ""
			case err != nil:
				w.logger.Warn("reading %s: %v", path, err)
				continue
			case sum == checksum:
				continue
			default:
				if kind == ports.Deleted || kind == ports.Renamed {
					// removed and recreated within the debounce window
					kind = ports.Modified
				}
				checksum = sum
			}

			event := ports.FileChangeEvent{Path: path, Type: kind, Timestamp: time.Now()}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

func changeType(op fsnotify.Op) ports.ChangeType {
	switch {
	case op.Has(fsnotify.Remove):
		return ports.Deleted
	case op.Has(fsnotify.Rename):
		return ports.Renamed
	case op.Has(fsnotify.Create):
		return ports.Created
	default:
		return ports.Modified
	}
}

// fileChecksum returns the sha256 of the file contents
func fileChecksum(path string) (string, error) {
	// #nosec G304 - the watched path is the deck chosen on the command line
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
