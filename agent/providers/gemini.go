package providers

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/tailored-agentic-units/chat/core/protocol"
	"github.com/tailored-agentic-units/chat/core/response"
)

// GeminiProvider talks to the Gemini API through the genai client.
type GeminiProvider struct {
	client *genai.Client
}

// NewGemini creates a Gemini provider. cfg.BaseURL overrides the API
// endpoint when set.
func NewGemini(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Name() string {
	return Gemini
}

func (p *GeminiProvider) Chat(ctx context.Context, data *ChatData) (*response.ChatResponse, error) {
	system, rest := protocol.Split(data.Messages)

	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		role := genai.Role(genai.RoleUser)
		if m.Role == protocol.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if t, ok := data.Temperature(); ok {
		config.Temperature = genai.Ptr(float32(t))
	}

	resp, err := p.client.Models.GenerateContent(ctx, data.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	out := &response.ChatResponse{
		ID:           resp.ResponseID,
		Model:        resp.ModelVersion,
		Content:      text,
		FinishReason: string(resp.Candidates[0].FinishReason),
	}
	if out.Model == "" {
		out.Model = data.Model
	}
	if usage := resp.UsageMetadata; usage != nil {
		out.Usage = &response.TokenUsage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	return out, nil
}
