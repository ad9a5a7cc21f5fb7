// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/docshelf/internal/api"
	"github.com/starford/docshelf/internal/catalog"
	"github.com/starford/docshelf/internal/docservice"
	"github.com/starford/docshelf/internal/grouping"
	"github.com/starford/docshelf/internal/live"
	"github.com/starford/docshelf/internal/mcpserver"
	"github.com/starford/docshelf/internal/metrics"
	"github.com/starford/docshelf/internal/render"
	"github.com/starford/docshelf/internal/storage"
)

// core holds what every command needs: the logger, the loaded catalog
// behind the document service, and the optional files provider.
type core struct {
	app    *application
	cfg    *Config
	logger *slog.Logger
	svc    *docservice.Service
	files  storage.Provider
}

func setup(opts []Option) (*core, error) {
	app := &application{
		logOut:  os.Stdout,
		out:     os.Stdout,
		version: "dev",
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("catalog_format", cfg.Catalog.Format),
		slog.String("files_root", cfg.Files.Root),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Load the catalog once; it never changes afterwards.
	store, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.Format, logger)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("Catalog loaded", slog.Int("documents", store.Len()))

	var files storage.Provider
	if cfg.Files.Root != "" {
		fsys, err := storage.NewFS(cfg.Files.Root)
		if err != nil {
			// Links still render; they just resolve nowhere on this server.
			logger.Warn("files root unavailable, file serving disabled",
				slog.String("root", cfg.Files.Root),
				slog.String("error", err.Error()))
		} else {
			files = fsys
		}
	}

	svc := docservice.NewService(store, grouping.NewGrouper(cfg.UI.LanguageTag()))

	return &core{app: app, cfg: cfg, logger: logger, svc: svc, files: files}, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	cfg, logger, svc := rt.cfg, rt.logger, rt.svc

	metrics.Init()
	metrics.CatalogDocuments.Set(float64(svc.Len()))

	var reveal *render.Revealer
	if cfg.UI.RevealStep > 0 {
		reveal = &render.Revealer{Step: cfg.UI.RevealStep}
	}

	sessions := live.NewManager(svc, live.Options{
		ContainerID:   cfg.UI.ContainerID,
		SearchInputID: cfg.UI.SearchInputID,
		Debounce:      cfg.UI.Debounce,
		Reveal:        reveal,
		SessionTTL:    cfg.Live.SessionTTL,
		SweepInterval: cfg.Live.SweepInterval,
		MaxSessions:   cfg.Live.MaxSessions,
	}, logger)

	var ready atomic.Bool

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", readyHandler(&ready))
	r.Handle("/metrics", metrics.Handler())

	// Page, fragment, JSON, session, and file routes.
	r.Mount("/", api.NewRouter(svc, sessions, rt.files, cfg.UI.Title))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Bootstrap probe: the catalog must render once before traffic is ready.
	g.Go(func() error {
		if err := bootstrapProbe(gCtx, svc); err != nil {
			return err
		}
		ready.Store(true)
		logger.Info("Bootstrap render complete", slog.Int("documents", svc.Len()))
		return nil
	})

	// Expire idle sessions.
	g.Go(func() error {
		sessions.Run(gCtx)
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		ready.Store(false)

		// Open SSE streams only end when their session closes.
		sessions.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown ends the run group once shutdown has been handled.
var errShutdown = errors.New("shutdown requested")

func readyHandler(ready *atomic.Bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"starting"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// probeContainer discards markup; it only proves the pipeline renders.
type probeContainer struct{}

func (probeContainer) Replace(_ template.HTML) {}

func bootstrapProbe(ctx context.Context, svc *docservice.Service) error {
	n, err := render.Render(probeContainer{}, svc.Groups(ctx, ""))
	if err != nil {
		return fmt.Errorf("bootstrap render: %w", err)
	}
	metrics.ObserveRender(metrics.SourceBootstrap, n)
	return nil
}

// RunMCP serves the catalog to MCP clients over stdio.
func RunMCP(_ context.Context, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	rt.logger.Info("Starting MCP server on stdio")
	if err := mcpserver.New(rt.svc, rt.files, rt.app.version).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// List prints the grouped catalog, filtered by query, as text or JSON.
func List(ctx context.Context, query string, asJSON bool, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	groups := rt.svc.Groups(ctx, query)
	out := rt.app.out

	if asJSON {
		if groups == nil {
			groups = []grouping.Group{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.DocumentsResponse{Groups: groups, Total: grouping.Count(groups)})
	}
	return writeListing(out, groups)
}

func writeListing(w io.Writer, groups []grouping.Group) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "No documents found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\n", g.Category)
		for _, d := range g.Documents {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", d.Title, render.FormatDate(d.Updated), d.File)
		}
	}
	return tw.Flush()
}
