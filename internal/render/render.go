// Package render turns grouped records into HTML and mounts it into a host
// container.
//
// Rendering happens in two phases. Render replaces the container content
// synchronously; Revealer then schedules the cosmetic, staggered entrance of
// each card. The second phase can be skipped without affecting the content.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/starford/docshelf/internal/apperr"
	"github.com/starford/docshelf/internal/grouping"
	"github.com/starford/docshelf/internal/models"
)

// DisplayDateLayout formats dates on cards, e.g. "Feb 26, 2026".
const DisplayDateLayout = "Jan 2, 2006"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Container is the host element whose entire content a render replaces.
type Container interface {
	Replace(content template.HTML)
}

type cardView struct {
	Index       int
	Title       string
	Description string
	File        string
	Updated     string
	Date        string
}

type sectionView struct {
	Category string
	Cards    []cardView
}

// FormatDate renders a YYYY-MM-DD date for display. Malformed input is
// returned as is.
func FormatDate(updated string) string {
	t, err := time.Parse(models.DateLayout, updated)
	if err != nil {
		return updated
	}
	return t.Format(DisplayDateLayout)
}

func sections(groups []grouping.Group) []sectionView {
	out := make([]sectionView, 0, len(groups))
	index := 0
	for _, g := range groups {
		s := sectionView{Category: g.Category, Cards: make([]cardView, 0, len(g.Documents))}
		for _, d := range g.Documents {
			s.Cards = append(s.Cards, cardView{
				Index:       index,
				Title:       d.Title,
				Description: d.Description,
				File:        d.File,
				Updated:     d.Updated,
				Date:        FormatDate(d.Updated),
			})
			index++
		}
		out = append(out, s)
	}
	return out
}

// Fragment returns the container markup for groups. An empty grouping yields
// the "no documents found" placeholder.
func Fragment(groups []grouping.Group) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "fragment", sections(groups)); err != nil {
		return "", fmt.Errorf("render: fragment: %w", err)
	}
	// Output of html/template is escaped for its context.
	return template.HTML(buf.String()), nil //nolint:gosec
}

// Render replaces the content of c with the markup for groups and returns the
// number of cards mounted. A nil container is a wiring error.
func Render(c Container, groups []grouping.Group) (int, error) {
	if c == nil {
		return 0, apperr.ErrNoContainer
	}
	html, err := Fragment(groups)
	if err != nil {
		return 0, err
	}
	c.Replace(html)
	return grouping.Count(groups), nil
}

// PageData feeds the HTML shell of one session.
type PageData struct {
	Title         string
	SessionID     string
	ContainerID   string
	SearchInputID string
	Query         string
	Reveal        bool
	Content       template.HTML
}

// Page writes the HTML shell. An empty SearchInputID omits the search box.
func Page(w io.Writer, data PageData) error {
	if data.ContainerID == "" {
		return apperr.ErrNoContainer
	}
	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render: page: %w", err)
	}
	return nil
}
