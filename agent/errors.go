package agent

import "errors"

// Sentinel errors for agent configuration and calls.
var (
	// ErrBackend marks every failure of a backend exchange. Callers treat
	// it as recoverable for the current turn.
	ErrBackend = errors.New("backend error")

	ErrEmptyModelName     = errors.New("model name is empty")
	ErrModelExists        = errors.New("model already registered")
	ErrUnknownModel       = errors.New("unknown model")
	ErrInvalidTemperature = errors.New("temperature out of range")
	ErrMissingCredential  = errors.New("missing API credential")
)
