// Package session holds the conversation history for a single chat session.
package session

// Turn is one completed exchange: the user's message and the assistant's
// response. Turns are recorded only after the backend answered successfully.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Session is an append-only log of turns. Implementations must be safe for
// concurrent use.
type Session interface {
	// ID returns the unique session identifier.
	ID() string
	// AddTurn appends a turn to the history.
	AddTurn(turn Turn)
	// Turns returns a snapshot of the history. Later mutations of the
	// session are not visible through the returned slice.
	Turns() []Turn
	// Len returns the number of recorded turns.
	Len() int
	// Clear empties the history. Clearing an empty session is a no-op.
	Clear()
}
