// Package models defines the domain types for docshelf.
package models

import "time"

// DateLayout is the on-disk encoding of Document.Updated.
const DateLayout = "2006-01-02"

// Document is one entry of the catalog.
type Document struct {
	Category    string `json:"category" yaml:"category"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	File        string `json:"file" yaml:"file"`
	Updated     string `json:"updated" yaml:"updated"`
}

// UpdatedAt parses Updated. The boolean is false when the date is malformed.
func (d Document) UpdatedAt() (time.Time, bool) {
	t, err := time.Parse(DateLayout, d.Updated)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
