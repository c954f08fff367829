package providers

import "github.com/tailored-agentic-units/chat/core/protocol"

// Option keys understood by every provider. Unknown keys are ignored.
const (
	OptionTemperature = "temperature"
)

// ChatData contains the data needed to issue a chat request.
type ChatData struct {
	Model    string
	Messages []protocol.Message
	Options  map[string]any
}

// Temperature returns the temperature option and whether it was set.
func (d *ChatData) Temperature() (float64, bool) {
	v, ok := d.Options[OptionTemperature]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}
