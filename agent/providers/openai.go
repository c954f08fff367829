package providers

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tailored-agentic-units/chat/core/response"
)

// OpenRouterBaseURL is the OpenAI-compatible endpoint of OpenRouter.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	name   string
	client *openai.Client
}

// NewOpenAI returns a provider for an OpenAI-compatible endpoint.
// cfg.BaseURL may be left empty for the default OpenAI URL.
func NewOpenAI(name string, cfg Config) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		name:   name,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Chat(ctx context.Context, data *ChatData) (*response.ChatResponse, error) {
	msgs := make([]openai.ChatCompletionMessage, len(data.Messages))
	for i, m := range data.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
	}

	req := openai.ChatCompletionRequest{
		Model:    data.Model,
		Messages: msgs,
	}
	// The client drops a zero temperature through omitempty; the smallest
	// positive float32 keeps the field on the wire and is greedy sampling.
	if t, ok := data.Temperature(); ok {
		req.Temperature = float32(t)
		if req.Temperature == 0 {
			req.Temperature = math.SmallestNonzeroFloat32
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s chat completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w", p.name, ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return nil, fmt.Errorf("%s: %w", p.name, ErrEmptyResponse)
	}

	return &response.ChatResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: &response.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
