package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// LiveReloadService reloads the presented deck when its file changes.
// The session broadcasts the reload to every view; load failures keep the
// previous deck on screen and are reported through the optional notifier.
type LiveReloadService struct {
	decks    ports.DeckService
	session  ports.SessionService
	notifier ports.HTTPServer
	logger   *slog.Logger

	mu          sync.Mutex
	watching    bool
	watchCancel context.CancelFunc
	deckPath    string
	reloads     int
}

// NewLiveReloadService creates a new live reload service. notifier may be nil.
func NewLiveReloadService(
	decks ports.DeckService,
	session ports.SessionService,
	notifier ports.HTTPServer,
	logger *slog.Logger,
) *LiveReloadService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LiveReloadService{
		decks:    decks,
		session:  session,
		notifier: notifier,
		logger:   logger.With("service", "live_reload"),
	}
}

// Start begins watching deckPath
func (s *LiveReloadService) Start(ctx context.Context, deckPath string) error {
	if deckPath == "" {
		return errors.New("the built-in deck cannot be watched")
	}

	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return errors.New("already watching")
	}
	watchCtx, cancel := context.WithCancel(ctx)
	s.watching = true
	s.watchCancel = cancel
	s.deckPath = deckPath
	s.mu.Unlock()

	events, err := s.decks.WatchDeck(watchCtx, deckPath)
	if err != nil {
		cancel()
		s.mu.Lock()
		s.watching = false
		s.watchCancel = nil
		s.mu.Unlock()
		return fmt.Errorf("starting watcher: %w", err)
	}

	go s.handleEvents(watchCtx, events)

	return nil
}

// Stop stops watching
func (s *LiveReloadService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.watching {
		return nil
	}

	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}

	s.watching = false
	return nil
}

// IsWatching returns whether the service is currently watching
func (s *LiveReloadService) IsWatching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching
}

// Reloads returns how many reloads succeeded
func (s *LiveReloadService) Reloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloads
}

func (s *LiveReloadService) handleEvents(ctx context.Context, events <-chan ports.FileChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			s.logger.Info("deck file changed",
				slog.String("path", event.Path),
				slog.String("type", event.Type.String()),
			)

			if event.Type == ports.Deleted {
				s.logger.Warn("deck file removed, keeping the loaded deck", slog.String("path", event.Path))
				continue
			}

			if err := s.reload(ctx); err != nil {
				s.logger.Error("failed to reload deck",
					slog.String("error", err.Error()),
					slog.String("path", event.Path),
				)
				s.notify(ports.UpdateEvent{
					Type:      ports.EventTypeError,
					Timestamp: time.Now(),
					Data:      map[string]interface{}{"file": event.Path, "message": "deck reload failed"},
				})
			}
		}
	}
}

func (s *LiveReloadService) reload(ctx context.Context) error {
	s.mu.Lock()
	path := s.deckPath
	s.mu.Unlock()

	deck, err := s.decks.LoadDeck(ctx, path)
	if err != nil {
		return fmt.Errorf("loading deck: %w", err)
	}

	if err := s.session.Replace(deck); err != nil {
		return err
	}

	s.mu.Lock()
	s.reloads++
	s.mu.Unlock()

	s.logger.Info("deck reloaded",
		slog.String("path", path),
		slog.Int("slides", deck.SlideCount()),
	)
	return nil
}

func (s *LiveReloadService) notify(event ports.UpdateEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyClients(event); err != nil {
		s.logger.Warn("failed to notify clients", slog.String("error", err.Error()))
	}
}
