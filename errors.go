package heapfit

import "errors"

var (
	ErrOutOfMemory        = errors.New("heap out of memory")
	ErrMemorySizeTooSmall = errors.New("memory size too small")
	ErrInvalidSearchMode  = errors.New("invalid search mode")
	ErrSearchModeChanged  = errors.New("search mode changed, remove the shared region or restore the stored mode")
	ErrHeapCorrupted      = errors.New("heap corrupted")
	ErrHeapClosed         = errors.New("heap closed")
)
