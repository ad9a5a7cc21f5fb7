// Package testutil provides shared test helpers for document trees, services,
// and asynchronous assertions.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/starford/docshelf/internal/catalog"
	"github.com/starford/docshelf/internal/docservice"
	"github.com/starford/docshelf/internal/grouping"
	"github.com/starford/docshelf/internal/models"
	"github.com/starford/docshelf/internal/storage"
)

// TestFiles creates a temporary directory holding files (slash path -> content)
// and returns it with a storage.Provider rooted there.
func TestFiles(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		abs := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestService returns a service over docs with English collation. A nil docs
// uses the embedded sample catalog.
func TestService(t *testing.T, docs []models.Document) *docservice.Service {
	t.Helper()
	store := catalog.Sample()
	if docs != nil {
		store = catalog.New(docs)
	}
	return docservice.NewService(store, grouping.NewGrouper(language.English))
}

// DiscardLogger returns a JSON logger that writes nowhere.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Eventually polls fn every tick until it returns true or timeout elapses.
func Eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}
