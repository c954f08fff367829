package memory

import "errors"

// Sentinel errors for store operations.
var (
	ErrKeyNotFound = errors.New("context file not found")
	ErrInvalidKey  = errors.New("invalid context file key")
	ErrLoadFailed  = errors.New("context load failed")
)
