package llm

import "context"

// Params are the generation hyperparameters, held constant across every model
// in a study run.
type Params struct {
	Temperature float64
	MaxTokens   int64
	TopP        float64 // 0 leaves the server default
	Seed        int64   // 0 leaves sampling unseeded
}

// Request is one raw completion call: a fully framed prompt (special tokens
// included) plus its hyperparameters.
type Request struct {
	Prompt string
	Params Params
}

// Client abstracts the model endpoint so the generation loop and the grader
// can be exercised without a live server.
type Client interface {
	// Complete sends a raw framed prompt to the completion endpoint.
	Complete(ctx context.Context, req Request) (string, error)
	// Chat sends a system/user message pair to the chat endpoint.
	Chat(ctx context.Context, system, user string, p Params) (string, error)
}

// Settings is the endpoint configuration for a concrete client.
type Settings struct {
	Model   string
	APIKey  string
	BaseURL string // empty targets the provider default
}
