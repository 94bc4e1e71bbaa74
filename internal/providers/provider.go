package providers

import (
	"context"
	"fmt"
)

// Request is one logical generation request.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Response is the raw model reply.
type Response struct {
	Content    string
	TokensUsed int
}

// Client is the transport abstraction the reviewer calls.
type Client interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

// New creates a provider client by name.
func New(provider, model string) (Client, error) {
	switch provider {
	case "openai":
		return NewOpenAI(model)
	case "anthropic":
		return NewAnthropic(model)
	case "ollama":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
