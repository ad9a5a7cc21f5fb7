// Package storage defines the read-only document file-system abstraction.
package storage

import "io/fs"

// FileMeta describes a file found by List.
type FileMeta struct {
	Path string
}

// Provider is the interface for document file operations.
type Provider interface {
	// List returns metadata for every file under dir (relative to root) whose
	// name ends with ext. An empty ext matches every file.
	List(dir, ext string) ([]FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Open opens the regular file at path (relative to root) for streaming.
	Open(path string) (fs.File, error)
}
