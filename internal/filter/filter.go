// Package filter reduces a record list to the records matching a search query.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/starford/docshelf/internal/models"
)

// Filter returns the records whose title, description, or category contains
// the trimmed query, compared under Unicode case folding. A blank query
// returns docs unchanged. Output keeps input order.
func Filter(docs []models.Document, query string) []models.Document {
	q := strings.TrimSpace(query)
	if q == "" {
		return docs
	}

	// Casers carry state and are not safe for concurrent use.
	fold := cases.Fold()
	needle := fold.String(q)

	out := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		if matches(fold, d, needle) {
			out = append(out, d)
		}
	}
	return out
}

// Matches reports whether d matches query under the same rules as Filter.
func Matches(d models.Document, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	fold := cases.Fold()
	return matches(fold, d, fold.String(q))
}

func matches(fold cases.Caser, d models.Document, needle string) bool {
	return strings.Contains(fold.String(d.Title), needle) ||
		strings.Contains(fold.String(d.Description), needle) ||
		strings.Contains(fold.String(d.Category), needle)
}
