// Package docservice runs the filter and grouping pipeline over the catalog
// for the HTTP, session, and MCP front ends.
package docservice

import (
	"context"

	"github.com/starford/docshelf/internal/apperr"
	"github.com/starford/docshelf/internal/catalog"
	"github.com/starford/docshelf/internal/filter"
	"github.com/starford/docshelf/internal/grouping"
	"github.com/starford/docshelf/internal/models"
)

// CategoryCount is one category with the number of matching records.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Service coordinates the catalog store and the pipeline engines.
type Service struct {
	store   *catalog.Store
	grouper *grouping.Grouper
}

// NewService creates a new document service.
func NewService(store *catalog.Store, grouper *grouping.Grouper) *Service {
	return &Service{store: store, grouper: grouper}
}

// Len returns the number of records in the catalog.
func (s *Service) Len() int {
	return s.store.Len()
}

// Groups filters the catalog by query and groups the result.
func (s *Service) Groups(_ context.Context, query string) []grouping.Group {
	return s.grouper.Group(filter.Filter(s.store.All(), query))
}

// Categories returns the categories matching query in display order.
func (s *Service) Categories(ctx context.Context, query string) []CategoryCount {
	groups := s.Groups(ctx, query)
	out := make([]CategoryCount, len(groups))
	for i, g := range groups {
		out[i] = CategoryCount{Name: g.Category, Count: len(g.Documents)}
	}
	return out
}

// Document returns the first record linking to file.
func (s *Service) Document(_ context.Context, file string) (models.Document, error) {
	d, ok := s.store.Find(file)
	if !ok {
		return models.Document{}, apperr.ErrNotFound
	}
	return d, nil
}
