package archive

import "errors"

// Sentinel errors for archive operations.
var (
	ErrNotFound   = errors.New("record not found")
	ErrLoadFailed = errors.New("load failed")
	ErrSaveFailed = errors.New("save failed")
)
