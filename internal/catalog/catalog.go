// Package catalog holds the immutable list of document records and the loaders
// that build it from an external data source.
package catalog

import (
	"slices"

	"github.com/starford/docshelf/internal/models"
)

// Store is an immutable, ordered list of document records.
type Store struct {
	docs []models.Document
}

// New creates a Store holding a copy of docs.
func New(docs []models.Document) *Store {
	return &Store{docs: slices.Clone(docs)}
}

// All returns a copy of the records in their original order.
func (s *Store) All() []models.Document {
	return slices.Clone(s.docs)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.docs)
}

// Find returns the first record whose File equals file.
func (s *Store) Find(file string) (models.Document, bool) {
	for _, d := range s.docs {
		if d.File == file {
			return d, true
		}
	}
	return models.Document{}, false
}
