// Package response holds provider-neutral response types returned by agents.
package response

// TokenUsage reports token consumption for a single request. Providers that
// do not expose usage leave the ChatResponse.Usage field nil.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the result of a single chat request.
type ChatResponse struct {
	ID           string      `json:"id,omitempty"`
	Model        string      `json:"model"`
	Content      string      `json:"content"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}
