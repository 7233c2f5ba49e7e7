package domain

import "errors"

var (
	ErrTableNotFound    = errors.New("table not found")
	ErrTableExists      = errors.New("table already exists")
	ErrInvalidID        = errors.New("invalid table id")
	ErrInvalidInterval  = errors.New("invalid interval")
	ErrOwnerRequired    = errors.New("owner required")
	ErrConflict         = errors.New("reservation conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)
