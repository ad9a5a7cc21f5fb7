// Package grouping partitions document records by category and orders them
// for display.
package grouping

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/starford/docshelf/internal/models"
)

// Group is one category and its records in display order.
type Group struct {
	Category  string            `json:"category"`
	Documents []models.Document `json:"documents"`
}

// Grouper orders categories with the collation rules of a locale.
type Grouper struct {
	tag language.Tag
}

// NewGrouper returns a Grouper for the given locale.
func NewGrouper(tag language.Tag) *Grouper {
	return &Grouper{tag: tag}
}

var english = NewGrouper(language.English)

// ByCategory groups docs using English collation.
func ByCategory(docs []models.Document) []Group {
	return english.Group(docs)
}

// Group partitions docs by category. Records within a category are ordered by
// Updated, newest first; records with a malformed date sort after every valid
// date. Ties keep their input order. Categories are ordered by locale-aware
// collation, falling back to byte order when the collator deems two names equal.
func (g *Grouper) Group(docs []models.Document) []Group {
	if len(docs) == 0 {
		return nil
	}

	var out []Group
	index := make(map[string]int)
	for _, d := range docs {
		i, ok := index[d.Category]
		if !ok {
			i = len(out)
			index[d.Category] = i
			out = append(out, Group{Category: d.Category})
		}
		out[i].Documents = append(out[i].Documents, d)
	}

	for i := range out {
		sortByUpdated(out[i].Documents)
	}

	// A Collator keeps scratch buffers and is not safe for concurrent use.
	c := collate.New(g.tag)
	slices.SortStableFunc(out, func(a, b Group) int {
		if n := c.CompareString(a.Category, b.Category); n != 0 {
			return n
		}
		return strings.Compare(a.Category, b.Category)
	})
	return out
}

type keyed struct {
	doc   models.Document
	key   int64
	valid bool
}

func sortByUpdated(docs []models.Document) {
	keys := make([]keyed, len(docs))
	for i, d := range docs {
		t, ok := d.UpdatedAt()
		keys[i] = keyed{doc: d, key: t.Unix(), valid: ok}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		switch {
		case a.valid && b.valid:
			// Newest first.
			if a.key > b.key {
				return -1
			}
			if a.key < b.key {
				return 1
			}
			return 0
		case a.valid:
			return -1
		case b.valid:
			return 1
		}
		return 0
	})
	for i := range keys {
		docs[i] = keys[i].doc
	}
}

// Count returns the total number of records across groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Documents)
	}
	return n
}
