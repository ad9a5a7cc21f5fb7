// Package live manages browser sessions: each session owns a host container,
// an SSE stream, and a debounced search controller.
package live

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/docshelf/internal/docservice"
	"github.com/starford/docshelf/internal/metrics"
	"github.com/starford/docshelf/internal/render"
	"github.com/starford/docshelf/internal/search"
	"github.com/starford/docshelf/internal/sse"
)

// Session is one open host document.
type Session struct {
	id            string
	containerID   string
	searchInputID string
	query         string

	svc        *docservice.Service
	pane       *Pane
	broker     *sse.Broker
	controller *search.Controller
	revealer   *render.Revealer
	logger     *slog.Logger
	now        func() time.Time

	mu           sync.Mutex
	cards        int
	cancelReveal func()
	lastSeen     time.Time
}

func newSession(svc *docservice.Service, opts Options, logger *slog.Logger, now func() time.Time) *Session {
	broker := sse.NewBroker(sse.DefaultKeepalive)
	id := uuid.NewString()
	return &Session{
		id:            id,
		containerID:   opts.ContainerID,
		searchInputID: opts.SearchInputID,
		svc:           svc,
		pane:          newPane(broker),
		broker:        broker,
		revealer:      opts.Reveal,
		logger:        logger.With(slog.String("session", id)),
		now:           now,
		cancelReveal:  func() {},
		lastSeen:      now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SearchEnabled reports whether a search input is bound.
func (s *Session) SearchEnabled() bool {
	return s.controller != nil
}

// Content returns the current container markup.
func (s *Session) Content() template.HTML {
	return s.pane.Content()
}

// PageData returns the shell data for this session's page.
func (s *Session) PageData(title string) render.PageData {
	return render.PageData{
		Title:         title,
		SessionID:     s.id,
		ContainerID:   s.containerID,
		SearchInputID: s.searchInputID,
		Query:         s.query,
		Reveal:        s.revealer.Enabled(),
		Content:       s.pane.Content(),
	}
}

func (s *Session) container() render.Container {
	if s.containerID == "" {
		return nil
	}
	return s.pane
}

// bootstrap performs the initial render and then binds the search input.
func (s *Session) bootstrap(ctx context.Context, query string, debounce time.Duration) error {
	s.query = query
	n, err := render.Render(s.container(), s.svc.Groups(ctx, query))
	if err != nil {
		return fmt.Errorf("live: bootstrap render: %w", err)
	}
	metrics.ObserveRender(metrics.SourceBootstrap, n)
	s.mu.Lock()
	s.cards = n
	s.mu.Unlock()

	if s.searchInputID != "" {
		s.controller = search.NewController(debounce, s.refresh)
	}
	return nil
}

// refresh runs on the controller loop once the debounce window closes.
func (s *Session) refresh(query string) {
	metrics.SearchRefreshes.Inc()
	// Reveals for the old cards must not land after the new content.
	s.stopReveal()
	n, err := render.Render(s.container(), s.svc.Groups(context.Background(), query))
	if err != nil {
		s.logger.Error("search render failed", slog.String("query", query), slog.String("error", err.Error()))
		return
	}
	metrics.ObserveRender(metrics.SourceSearch, n)
	s.logger.Debug("search rendered", slog.String("query", query), slog.Int("cards", n))

	s.mu.Lock()
	s.cards = n
	s.mu.Unlock()
	s.reveal()
}

// reveal restarts the staggered entrance for the current cards.
func (s *Session) reveal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelReveal()
	s.cancelReveal = s.revealer.Schedule(s.cards, s.broker.PublishReveal)
}

func (s *Session) stopReveal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelReveal()
	s.cancelReveal = func() {}
}

// Ready is called once the browser is listening. The broker has already
// replayed the current content to it; Ready starts the reveal phase.
func (s *Session) Ready() {
	s.touch()
	s.reveal()
}

// Input forwards a search input value. It reports false when the session has
// no search input bound.
func (s *Session) Input(value string) bool {
	if s.controller == nil {
		return false
	}
	s.touch()
	metrics.SearchInputs.Inc()
	s.controller.Input(value)
	return true
}

// ServeEvents streams the session's events to one client.
func (s *Session) ServeEvents(w http.ResponseWriter, r *http.Request) {
	s.broker.Serve(w, r, s.Ready)
	s.touch()
}

// Clients returns the number of connected SSE clients.
func (s *Session) Clients() int {
	return s.broker.ClientCount()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Session) lastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close stops the controller, pending reveals, and the SSE broker.
func (s *Session) Close() {
	if s.controller != nil {
		s.controller.Close()
	}
	s.stopReveal()
	s.broker.Close()
}
