package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrNoContainer = errors.New("host container is missing")
)
