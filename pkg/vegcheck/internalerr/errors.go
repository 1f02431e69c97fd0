package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidConfig = errors.New("invalid configuration")
)
