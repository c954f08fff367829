package conversation

import "errors"

var (
	// ErrConfiguration marks startup configuration failures: unreadable or
	// invalid config files, out-of-range values, unknown models and missing
	// credentials. These are fatal before any session exists.
	ErrConfiguration = errors.New("configuration error")

	// ErrEmptyMessage is returned by Exchange for a blank message. No
	// backend call is made.
	ErrEmptyMessage = errors.New("message is empty")
)
