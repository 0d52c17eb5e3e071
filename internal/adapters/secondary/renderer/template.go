package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// TemplateRenderer renders the slideshow page with html/template
type TemplateRenderer struct {
	templates *template.Template
}

// pageView is what the page template sees
type pageView struct {
	DeckTitle    string
	DeckSubtitle string
	Theme        string
	Slide        slideView
	State        entities.NavigationState
	Progress     string
	PrevHref     string
	NextHref     string
	Dots         []dotView
}

type slideView struct {
	ID       string
	Title    string
	Subtitle string
	Icon     string
	Cover    bool
	HTML     template.HTML
}

type dotView struct {
	ID     string
	Title  string
	Href   string
	Active bool
}

// NewTemplateRenderer creates a new template-based renderer
func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &TemplateRenderer{templates: tmpl}, nil
}

var _ ports.PageRenderer = (*TemplateRenderer)(nil)

// RenderPage renders the page for the slide at state.Index
func (r *TemplateRenderer) RenderPage(ctx context.Context, deck *entities.Deck, state entities.NavigationState) ([]byte, error) {
	if deck == nil {
		return nil, errors.New("deck cannot be nil")
	}
	if state.Index < 0 || state.Index >= len(deck.Slides) {
		return nil, fmt.Errorf("slide index %d out of range", state.Index)
	}

	current := deck.Slides[state.Index]
	view := pageView{
		DeckTitle:    deck.Title,
		DeckSubtitle: deck.Description,
		Theme:        deck.Theme,
		Slide: slideView{
			ID:       current.ID,
			Title:    current.DisplayTitle(),
			Subtitle: current.Subtitle,
			Icon:     IconGlyph(current.Icon),
			Cover:    current.IsCover(),
			HTML:     template.HTML(current.HTML), // #nosec G203 - rendered from the deck author's markdown
		},
		State:    state,
		Progress: fmt.Sprintf("%.2f", state.Progress),
		Dots:     make([]dotView, len(deck.Slides)),
	}

	if !state.AtStart {
		view.PrevHref = slideHref(state.Position - 1)
	}
	if !state.AtEnd {
		view.NextHref = slideHref(state.Position + 1)
	}

	for i := range deck.Slides {
		view.Dots[i] = dotView{
			ID:     deck.Slides[i].ID,
			Title:  deck.Slides[i].DisplayTitle(),
			Href:   slideHref(i + 1),
			Active: i == state.Index,
		}
	}

	var buf bytes.Buffer
	if err := r.templates.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}

	return buf.Bytes(), nil
}

func slideHref(position int) string {
	return fmt.Sprintf("/slides/%d", position)
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Slide.Title}} · {{.DeckTitle}}</title>
    <style>
        * { box-sizing: border-box; }
        body { margin: 0; min-height: 100vh; color: #fff; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
               background: linear-gradient(135deg, #0f172a, #1e1b4b 50%, #0f172a); }
        .progress { position: fixed; top: 0; left: 0; right: 0; height: 4px; background: rgba(255,255,255,.1); }
        .progress-fill { height: 100%; background: linear-gradient(90deg, #22d3ee, #3b82f6, #9333ea); transition: width .3s; }
        main { max-width: 72rem; margin: 0 auto; padding: 3rem 2rem 2rem; }
        header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 2rem; }
        header h1 { margin: 0; font-size: 1.5rem; }
        header p { margin: .25rem 0 0; opacity: .6; font-size: .9rem; }
        .counter { opacity: .6; font-size: .9rem; }
        .slide { background: rgba(255,255,255,.05); border: 1px solid rgba(255,255,255,.1); border-radius: 1.5rem; padding: 3rem; min-height: 60vh; }
        .slide-head { display: flex; align-items: center; gap: 1.5rem; margin-bottom: 2rem; }
        .slide.cover .slide-head { flex-direction: column; text-align: center; }
        .slide.cover .icon { font-size: 6rem; }
        .slide.cover .body { text-align: center; }
        .icon { font-size: 4rem; line-height: 1; }
        .slide-head h2 { margin: 0; font-size: 2.5rem; background: linear-gradient(90deg, #67e8f9, #a78bfa); -webkit-background-clip: text; background-clip: text; color: transparent; }
        .slide-head p { margin: .5rem 0 0; font-size: 1.25rem; opacity: .8; }
        .body table { border-collapse: collapse; width: 100%; }
        .body th, .body td { border: 1px solid rgba(255,255,255,.15); padding: .6rem; text-align: left; }
        .body blockquote { margin: 1.5rem 0; padding: 1rem 1.5rem; border-left: 4px solid #3b82f6; background: rgba(59,130,246,.1); border-radius: .5rem; }
        .body code { background: rgba(255,255,255,.1); padding: .1rem .35rem; border-radius: .25rem; }
        nav { display: flex; justify-content: space-between; align-items: center; margin-top: 2rem; }
        .btn { display: inline-block; padding: .75rem 1.5rem; border-radius: .75rem; color: #fff; text-decoration: none; background: rgba(255,255,255,.1); }
        .btn.next { background: linear-gradient(90deg, #3b82f6, #9333ea); }
        .btn.disabled { opacity: .3; cursor: not-allowed; }
        .dots { display: flex; gap: .5rem; }
        .dot { width: .5rem; height: .5rem; border-radius: 9999px; background: rgba(255,255,255,.3); transition: all .3s; }
        .dot.active { width: 2rem; background: #3b82f6; }
    </style>
</head>
<body data-theme="{{.Theme}}" data-index="{{.State.Index}}" data-total="{{.State.Total}}">
    <div class="progress" role="progressbar" aria-valuemin="0" aria-valuemax="100" aria-valuenow="{{.Progress}}">
        <div class="progress-fill" style="width: {{.Progress}}%"></div>
    </div>
    <main>
        <header>
            <div>
                <h1>{{.DeckTitle}}</h1>
                {{if .DeckSubtitle}}<p>{{.DeckSubtitle}}</p>{{end}}
            </div>
            <div class="counter">Slide {{.State.Position}} of {{.State.Total}}</div>
        </header>

        <section class="slide{{if .Slide.Cover}} cover{{end}}" id="slide-{{.Slide.ID}}">
            <div class="slide-head">
                {{if .Slide.Icon}}<div class="icon" aria-hidden="true">{{.Slide.Icon}}</div>{{end}}
                <div>
                    <h2>{{.Slide.Title}}</h2>
                    {{if .Slide.Subtitle}}<p>{{.Slide.Subtitle}}</p>{{end}}
                </div>
            </div>
            <div class="body">{{.Slide.HTML}}</div>
        </section>

        <nav>
            {{if .PrevHref}}<a class="btn prev" href="{{.PrevHref}}" rel="prev">‹ Previous</a>{{else}}<span class="btn prev disabled" aria-disabled="true">‹ Previous</span>{{end}}
            <div class="dots">
                {{range .Dots}}<a class="dot{{if .Active}} active{{end}}" href="{{.Href}}" data-slide-id="{{.ID}}" title="{{.Title}}" aria-label="Go to {{.Title}}"{{if .Active}} aria-current="step"{{end}}></a>{{end}}
            </div>
            {{if .NextHref}}<a class="btn next" href="{{.NextHref}}" rel="next">Next ›</a>{{else}}<span class="btn next disabled" aria-disabled="true">Next ›</span>{{end}}
        </nav>
    </main>
    <script>
    (function () {
        var index = {{.State.Index}};
        function go(action, slide) {
            fetch('/api/navigate', {method: 'POST', headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({action: action, slide: slide || 0})});
        }
        document.addEventListener('keydown', function (e) {
            if (e.key === 'ArrowRight' || e.key === ' ') { e.preventDefault(); go('next'); }
            else if (e.key === 'ArrowLeft') { e.preventDefault(); go('prev'); }
            else if (e.key === 'Home') { go('first'); }
            else if (e.key === 'End') { go('last'); }
        });
        if (!window.WebSocket) { return; }
        var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
        var ws = new WebSocket(proto + location.host + '/ws');
        ws.onmessage = function (msg) {
            var event = JSON.parse(msg.data);
            var state = event.data && event.data.state;
            if (!state) { return; }
            if (event.type === 'reload' || state.index !== index) {
                location.replace('/slides/' + state.position);
            }
        };
    })();
    </script>
</body>
</html>`
