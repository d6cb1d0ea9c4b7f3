package repository

import "errors"

// ErrNotFound is returned when a lookup by name or id matches no row.
var ErrNotFound = errors.New("not found")
