package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

const maxNavigateBody = 4 << 10

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// DeckResponse is the /api/deck payload
type DeckResponse struct {
	Title       string          `json:"title"`
	Author      string          `json:"author,omitempty"`
	Description string          `json:"description,omitempty"`
	Theme       string          `json:"theme"`
	Slides      []SlideResponse `json:"slides"`
}

// SlideResponse represents a single slide in the API response
type SlideResponse struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Type     string `json:"type"`
	HTML     string `json:"html"`
	Notes    string `json:"notes,omitempty"`
}

// NavigateRequest is the /api/navigate body. Slide is the 0-based target
// for "goto"; ID may be given instead.
type NavigateRequest struct {
	Action string `json:"action"`
	Slide  *int   `json:"slide,omitempty"`
	ID     string `json:"id,omitempty"`
}

// NavigateResponse reports whether the request was accepted and the
// resulting state. A rejected jump is not an error.
type NavigateResponse struct {
	Accepted bool                     `json:"accepted"`
	State    entities.NavigationState `json:"state"`
}

// HealthResponse is the /healthz payload
type HealthResponse struct {
	Status      string  `json:"status"`
	Slides      int     `json:"slides"`
	Clients     int     `json:"clients"`
	Uptime      string  `json:"uptime"`
	Goroutines  int     `json:"goroutines"`
	MemoryMB    float64 `json:"memory_mb"`
	Requests    int64   `json:"requests"`
	Navigations int64   `json:"navigations"`
	PageRenders int64   `json:"page_renders"`
	AvgRenderMs float64 `json:"avg_render_ms"`
}

// handleCurrentSlide renders the page for the session's current slide
func (s *Server) handleCurrentSlide(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, s.session.Deck(), s.session.State())
}

// handleSlide navigates the shared session to /slides/{n} (1-based) and
// renders it; every connected view follows. Targets outside the deck
// redirect to the current slide without moving. Prefetches and link
// previews get the page without moving the session.
func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		s.handleError(w, err, http.StatusNotFound)
		return
	}

	if isPrefetch(r) {
		s.previewSlide(w, r, n)
		return
	}

	state, accepted := s.session.Navigate(entities.ActionGoto, n-1)
	if !accepted {
		s.logger.Debug("slide %d is out of range, staying on %d", n, state.Position)
		http.Redirect(w, r, fmt.Sprintf("/slides/%d", state.Position), http.StatusSeeOther)
		return
	}
	s.monitor.RecordNavigation()

	s.renderPage(w, r, s.session.Deck(), state)
}

// previewSlide renders slide n from a private navigator
func (s *Server) previewSlide(w http.ResponseWriter, r *http.Request, n int) {
	deck := s.session.Deck()
	nav, err := entities.NewNavigator(deck.Slides)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}
	if !nav.JumpTo(n - 1) {
		s.handleError(w, fmt.Errorf("slide %d not found", n), http.StatusNotFound)
		return
	}

	s.logger.Debug("prefetch of slide %d served without navigating", n)
	s.renderPage(w, r, deck, nav.State())
}

// isPrefetch reports requests issued by speculative loading rather than a click
func isPrefetch(r *http.Request) bool {
	for _, header := range []string{"Sec-Purpose", "Purpose", "X-Purpose", "X-Moz"} {
		value := strings.ToLower(r.Header.Get(header))
		if strings.Contains(value, "prefetch") || strings.Contains(value, "preview") {
			return true
		}
	}
	return false
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, deck *entities.Deck, state entities.NavigationState) {
	start := time.Now()
	page, err := s.pages.RenderPage(r.Context(), deck, state)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}
	s.monitor.RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(page); err != nil {
		s.logger.Error("writing page: %v", err)
	}
}

// handleDeck returns the deck with every rendered body sanitized
func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	deck := s.session.Deck()

	response := DeckResponse{
		Title:       deck.Title,
		Author:      deck.Author,
		Description: deck.Description,
		Theme:       deck.Theme,
		Slides:      make([]SlideResponse, len(deck.Slides)),
	}
	for i := range deck.Slides {
		slide := &deck.Slides[i]
		response.Slides[i] = SlideResponse{
			Index:    slide.Index,
			ID:       slide.ID,
			Title:    slide.DisplayTitle(),
			Subtitle: slide.Subtitle,
			Icon:     slide.Icon,
			Type:     string(slide.Kind),
			HTML:     s.sanitizer.Sanitize(slide.HTML),
			Notes:    slide.Notes,
		}
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleState returns the current navigation state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.State())
}

// handleNavigate applies a navigation action. Boundary no-ops and rejected
// jumps answer 200 with the unchanged state.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNavigateBody)).Decode(&req); err != nil {
		s.handleError(w, fmt.Errorf("decoding navigate request: %w", err), http.StatusBadRequest)
		return
	}

	action, target, err := s.resolveNavigation(req)
	if err != nil {
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	state, accepted := s.session.Navigate(action, target)
	if accepted {
		s.monitor.RecordNavigation()
	}
	s.writeJSON(w, http.StatusOK, NavigateResponse{Accepted: accepted, State: state})
}

// resolveNavigation validates a request and maps it to a navigator action
func (s *Server) resolveNavigation(req NavigateRequest) (entities.NavigationAction, int, error) {
	action := entities.NavigationAction(req.Action)

	switch action {
	case entities.ActionNext, entities.ActionPrev, entities.ActionFirst, entities.ActionLast:
		return action, 0, nil
	case entities.ActionGoto:
		if req.ID != "" {
			idx, ok := s.session.Deck().SlideByID(req.ID)
			if !ok {
				// an unknown id is a rejected jump like any other
				return action, -1, nil
			}
			return action, idx, nil
		}
		if req.Slide == nil {
			return "", 0, errors.New("goto requires slide or id")
		}
		return action, *req.Slide, nil
	default:
		return "", 0, fmt.Errorf("unknown action %q", req.Action)
	}
}

// handleProgress serves the progress bar as SVG
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.progress.RenderProgress(&buf, s.session.State()); err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Error("writing progress badge: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.monitor.Sample()
	metrics := s.monitor.Snapshot()

	status := "ok"
	if !s.monitor.IsHealthy() {
		status = "degraded"
	}

	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:      status,
		Slides:      s.session.State().Total,
		Clients:     s.hub.Count(),
		Uptime:      s.monitor.Uptime().Round(time.Second).String(),
		Goroutines:  metrics.Goroutines,
		MemoryMB:    float64(metrics.MemoryBytes) / (1 << 20),
		Requests:    metrics.HTTPRequests,
		Navigations: metrics.Navigations,
		PageRenders: metrics.PageRenders,
		AvgRenderMs: float64(metrics.AverageRender.Microseconds()) / 1000,
	})
}

// handleError writes a sanitized error response and logs the real error
func (s *Server) handleError(w http.ResponseWriter, err error, status int) {
	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid request"
	case http.StatusNotFound:
		message = "Resource not found"
	case http.StatusMethodNotAllowed:
		message = "Method not allowed"
	case http.StatusInternalServerError:
		message = "Internal server error"
	default:
		message = "An error occurred"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("HTTP error (status %d): %v", status, err)
	} else {
		s.logger.Debug("HTTP error (status %d): %v", status, err)
	}

	s.writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Time:    time.Now(),
	})
}

// writeJSON encodes data with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("encoding JSON response: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error("writing JSON response: %v", err)
	}
}
