// Package protocol defines the provider-neutral message types exchanged
// between the conversation engine and backend agents.
package protocol

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message with the given role and content.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.RoleUser, "Hello, world!")
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// InitMessages builds the message list for a single exchange: an optional
// system instruction followed by the user prompt. An empty system
// instruction is omitted.
func InitMessages(system, prompt string) []Message {
	if system == "" {
		return []Message{NewMessage(RoleUser, prompt)}
	}
	return []Message{
		NewMessage(RoleSystem, system),
		NewMessage(RoleUser, prompt),
	}
}

// Split separates system instructions from the conversational messages.
// Multiple system messages are joined with blank lines. Providers whose wire
// format carries the system instruction out of band use this.
func Split(messages []Message) (system string, rest []Message) {
	rest = make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role != RoleSystem {
			rest = append(rest, msg)
			continue
		}
		if system != "" {
			system += "\n\n"
		}
		system += msg.Content
	}
	return system, rest
}
