package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/docshelf/internal/checksum"
	"github.com/starford/docshelf/internal/docservice"
	"github.com/starford/docshelf/internal/grouping"
	"github.com/starford/docshelf/internal/live"
	"github.com/starford/docshelf/internal/metrics"
	"github.com/starford/docshelf/internal/render"
	"github.com/starford/docshelf/internal/storage"
)

const maxInputBytes = 64 << 10

// Handler holds page and API route handlers.
type Handler struct {
	svc      *docservice.Service
	sessions *live.Manager
	title    string
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service, sessions *live.Manager, title string) *Handler {
	return &Handler{svc: svc, sessions: sessions, title: title}
}

// Page handles GET /.
//
//	@Summary		Open a session and serve its page
//	@Tags			pages
//	@Produce		html
//	@Param			q	query	string	false	"Initial search query"
//	@Success		200
//	@Failure		500
//	@Router			/ [get]
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s, err := h.sessions.Open(r.Context(), q)
	if err != nil {
		slog.Error("open session failed", slog.String("query", q), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, s.PageData(h.title)); err != nil {
		slog.Error("render page failed", slog.String("session", s.ID()), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// Fragment handles GET /fragment.
//
//	@Summary		Container markup for a query
//	@Tags			pages
//	@Produce		html
//	@Param			q				query	string	false	"Search query"
//	@Param			If-None-Match	header	string	false	"ETag of a cached fragment"
//	@Success		200
//	@Success		304
//	@Router			/fragment [get]
func (h *Handler) Fragment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	groups := h.svc.Groups(r.Context(), q)
	html, err := render.Fragment(groups)
	if err != nil {
		slog.Error("render fragment failed", slog.String("query", q), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveRender(metrics.SourceFragment, grouping.Count(groups))

	body := []byte(html)
	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	if checksum.Match(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		Grouped catalog, optionally filtered
//	@Tags			documents
//	@Produce		json
//	@Param			q	query		string	false	"Search query"
//	@Success		200	{object}	DocumentsResponse
//	@Router			/api/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	groups := h.svc.Groups(r.Context(), r.URL.Query().Get("q"))
	if groups == nil {
		groups = []grouping.Group{}
	}
	total := grouping.Count(groups)
	metrics.ObserveRender(metrics.SourceAPI, total)
	writeJSON(w, http.StatusOK, DocumentsResponse{Groups: groups, Total: total})
}

// ListCategories handles GET /api/categories.
//
//	@Summary		Categories in display order with record counts
//	@Tags			documents
//	@Produce		json
//	@Param			q	query		string	false	"Search query"
//	@Success		200	{object}	CategoriesResponse
//	@Router			/api/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.svc.Categories(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats})
}

// SessionInput handles POST /api/sessions/{id}/input.
//
//	@Summary		Deliver a search input value to a session
//	@Tags			sessions
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			id		path		string			true	"Session id"
//	@Param			body	body		InputRequest	true	"Current input value"
//	@Success		202		{object}	AcceptedResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/api/sessions/{id}/input [post]
func (h *Handler) SessionInput(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxInputBytes)

	q, err := readInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if !s.Input(q) {
		writeJSON(w, http.StatusNotFound, errorBody("search is disabled"))
		return
	}
	writeJSON(w, http.StatusAccepted, AcceptedResponse{Status: "accepted"})
}

// SessionEvents handles GET /api/sessions/{id}/events.
//
//	@Summary		Server-Sent Events stream of container renders and reveals
//	@Tags			sessions
//	@Produce		text/event-stream
//	@Param			id	path	string	true	"Session id"
//	@Success		200
//	@Failure		404	{object}	errResponse
//	@Router			/api/sessions/{id}/events [get]
func (h *Handler) SessionEvents(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r.Context()).ServeEvents(w, r)
}

// SessionFragment handles GET /api/sessions/{id}/fragment.
//
//	@Summary		Current container markup of a session
//	@Tags			sessions
//	@Produce		html
//	@Param			id	path	string	true	"Session id"
//	@Success		200
//	@Failure		404	{object}	errResponse
//	@Router			/api/sessions/{id}/fragment [get]
func (h *Handler) SessionFragment(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, []byte(sessionFrom(r.Context()).Content()))
}

// readInput extracts q from a JSON or form-encoded body.
func readInput(r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req InputRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", errors.New("invalid JSON body")
		}
		return req.Q, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", errors.New("invalid form body")
	}
	return r.PostForm.Get("q"), nil
}

// FileHandler serves document files from a storage provider.
type FileHandler struct {
	files storage.Provider
}

// NewFileHandler creates a handler backed by files.
func NewFileHandler(files storage.Provider) *FileHandler {
	return &FileHandler{files: files}
}

// filePath extracts the wildcard path. Supports encoded slashes.
func filePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ServeFile handles GET /*.
func (h *FileHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	path := filePath(r)
	if path == "" {
		http.NotFound(w, r)
		return
	}

	f, err := h.files.Open(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrPermission):
			http.Error(w, "forbidden", http.StatusForbidden)
		case errors.Is(err, fs.ErrNotExist):
			http.NotFound(w, r)
		default:
			slog.Error("open file failed", slog.String("path", path), slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		slog.Error("stat file failed", slog.String("path", path), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			slog.Error("read file failed", slog.String("path", path), slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		rs = bytes.NewReader(data)
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), rs)
}
