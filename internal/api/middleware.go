// Package api implements the docshelf HTTP surface using chi.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/docshelf/internal/live"
)

type sessionKey struct{}

// SessionMiddleware resolves the {id} URL parameter to an open session and
// stores it in the request context. Unknown ids get a 404.
func SessionMiddleware(sessions *live.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := sessions.Get(chi.URLParam(r, "id"))
			if !ok {
				writeJSON(w, http.StatusNotFound, errorBody("session not found"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
		})
	}
}

func sessionFrom(ctx context.Context) *live.Session {
	s, _ := ctx.Value(sessionKey{}).(*live.Session)
	return s
}

// NoStore marks responses as uncacheable. Session pages and streams are
// per-browser.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
