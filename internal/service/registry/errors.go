package registry

import "errors"

// ErrInvalidInput indicates a promotion payload failed validation.
var ErrInvalidInput = errors.New("invalid promotion input")

// ErrNotFound indicates no promotion carries the requested id.
var ErrNotFound = errors.New("promotion not found")

// ErrUnknownSortKey indicates the registry cannot sort by the requested column.
var ErrUnknownSortKey = errors.New("unknown sort key")
