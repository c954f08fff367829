package agent

import "github.com/tailored-agentic-units/chat/agent/providers"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

var builtinModels = []Model{
	{Name: "gpt-4o-mini", Provider: providers.OpenRouter, ID: "openai/gpt-4o-mini", Description: "OpenAI GPT-4o mini via OpenRouter"},
	{Name: "gpt-4o", Provider: providers.OpenRouter, ID: "openai/gpt-4o", Description: "OpenAI GPT-4o via OpenRouter"},
	{Name: "claude-3.5-sonnet", Provider: providers.OpenRouter, ID: "anthropic/claude-3.5-sonnet", Description: "Anthropic Claude 3.5 Sonnet via OpenRouter"},
	{Name: "llama-3.1-70b", Provider: providers.OpenRouter, ID: "meta-llama/llama-3.1-70b-instruct", Description: "Meta Llama 3.1 70B Instruct via OpenRouter"},
	{Name: "gpt-4.1-mini", Provider: providers.OpenAI, ID: "gpt-4.1-mini", Description: "OpenAI GPT-4.1 mini"},
	{Name: "gemini-2.0-flash", Provider: providers.Gemini, ID: "gemini-2.0-flash", Description: "Google Gemini 2.0 Flash"},
}

// Catalog is the fixed set of models accepted by --model.
var Catalog = newCatalog()

func newCatalog() *Registry {
	r := NewRegistry()
	for _, m := range builtinModels {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
	return r
}
