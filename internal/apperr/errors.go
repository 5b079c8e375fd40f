// Package apperr holds the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrCorrupt   = errors.New("corrupt stored value")
	ErrWrongMode = errors.New("operation not available in this page mode")
)
