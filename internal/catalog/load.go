package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/docshelf/internal/models"
	"github.com/starford/docshelf/internal/parser"
	"github.com/starford/docshelf/internal/storage"
)

// Source formats.
const (
	FormatAuto     = "auto"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

//go:embed sample.yaml
var sampleCatalog []byte

// document list file: either a bare list or wrapped in a "documents" key.
type listFile struct {
	Documents []models.Document `json:"documents" yaml:"documents"`
}

// Sample returns the embedded sample catalog.
func Sample() *Store {
	docs, err := decodeYAML(sampleCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded sample: %v", err))
	}
	return New(docs)
}

// Load builds a Store from path. An empty path yields the embedded sample.
// With FormatAuto the format is picked from the extension, and directories are
// read as Markdown.
func Load(path, format string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return Sample(), nil
	}
	if format == "" || format == FormatAuto {
		detected, err := detectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	switch format {
	case FormatMarkdown:
		files, err := storage.NewFS(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		return LoadMarkdown(files, logger)
	case FormatYAML, FormatJSON:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
		var docs []models.Document
		if format == FormatJSON {
			docs, err = decodeJSON(data)
		} else {
			docs, err = decodeYAML(data)
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", path, err)
		}
		return New(docs), nil
	default:
		return nil, fmt.Errorf("catalog: unknown format %q", format)
	}
}

func detectFormat(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("catalog: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return FormatMarkdown, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("catalog: cannot detect format of %s", path)
}

func decodeYAML(data []byte) ([]models.Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var docs []models.Document
		if err := node.Content[0].Decode(&docs); err != nil {
			return nil, err
		}
		return docs, nil
	}
	var lf listFile
	if err := node.Content[0].Decode(&lf); err != nil {
		return nil, err
	}
	return lf.Documents, nil
}

func decodeJSON(data []byte) ([]models.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []models.Document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	}
	var lf listFile
	if err := json.Unmarshal(trimmed, &lf); err != nil {
		return nil, err
	}
	return lf.Documents, nil
}

// LoadMarkdown builds a Store from the frontmatter of every Markdown file the
// provider lists. The record's file defaults to the Markdown file itself.
// Unreadable files are skipped with a warning.
func LoadMarkdown(store storage.Provider, logger *slog.Logger) (*Store, error) {
	metas, err := store.List("", ".md")
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	docs := make([]models.Document, 0, len(metas))
	for _, m := range metas {
		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("catalog: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		res, err := parser.Parse(data)
		if err != nil {
			logger.Warn("catalog: parse failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		doc := models.Document{
			Category:    res.String("category"),
			Title:       res.Title,
			Description: res.String("description"),
			File:        res.String("file"),
			Updated:     res.String("updated"),
		}
		if doc.File == "" {
			doc.File = m.Path
		}
		docs = append(docs, doc)
		logger.Debug("catalog: loaded", slog.String("path", m.Path))
	}
	return New(docs), nil
}
