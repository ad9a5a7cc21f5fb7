package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/docshelf/internal/docservice"
	"github.com/starford/docshelf/internal/live"
	"github.com/starford/docshelf/internal/storage"
)

// NewRouter creates a chi router with the page, fragment, JSON, and session
// routes mounted. files, if non-nil, serves document files for every path the
// other routes do not claim.
func NewRouter(svc *docservice.Service, sessions *live.Manager, files storage.Provider, title string) chi.Router {
	h := NewHandler(svc, sessions, title)

	r := chi.NewRouter()

	// Host document and stateless container markup.
	r.With(NoStore).Get("/", h.Page)
	r.Get("/fragment", h.Fragment)

	r.Route("/api", func(r chi.Router) {
		r.Get("/documents", h.ListDocuments)
		r.Get("/categories", h.ListCategories)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(SessionMiddleware(sessions))
			r.Use(NoStore)
			r.Post("/input", h.SessionInput)
			r.Get("/events", h.SessionEvents)
			r.Get("/fragment", h.SessionFragment)
		})
	})

	if files != nil {
		fh := NewFileHandler(files)
		r.Get("/*", fh.ServeFile)
	}

	return r
}
