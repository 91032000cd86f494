package services

import "errors"

// Dashboard service errors
var (
	ErrInvalidTable       = errors.New("unknown summary table")
	ErrInvalidLimit       = errors.New("limit out of range")
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)
