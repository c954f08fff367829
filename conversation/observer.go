package conversation

import "github.com/tailored-agentic-units/chat/observability"

// Conversation event types.
const (
	EventSessionStart     observability.EventType = "conversation.session.start"
	EventExchangeStart    observability.EventType = "conversation.exchange.start"
	EventExchangeComplete observability.EventType = "conversation.exchange.complete"
	EventExchangeError    observability.EventType = "conversation.exchange.error"
	EventHistoryClear     observability.EventType = "conversation.history.clear"
)
