package api

import (
	"github.com/starford/docshelf/internal/docservice"
	"github.com/starford/docshelf/internal/grouping"
)

// InputRequest is the JSON body of a session input event.
type InputRequest struct {
	Q string `json:"q" example:"pyt"`
}

// Group is one category of the listing (aliased from the domain layer).
type Group = grouping.Group

// CategoryCount is one category with its record count (aliased from the domain layer).
type CategoryCount = docservice.CategoryCount

// DocumentsResponse wraps the grouped catalog.
type DocumentsResponse struct {
	Groups []Group `json:"groups" validate:"required"`
	Total  int     `json:"total" example:"7" validate:"required"`
}

// CategoriesResponse wraps the category listing.
type CategoriesResponse struct {
	Categories []CategoryCount `json:"categories" validate:"required"`
}

// AcceptedResponse acknowledges an input event.
type AcceptedResponse struct {
	Status string `json:"status" example:"accepted"`
}
