package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client with the official openai-go SDK. Pointing
// BaseURL at a vLLM-style server lets the same client drive
// DeepSeek-R1-Distill-Qwen-32B or any other OpenAI-compatible deployment.
type OpenAIClient struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIClient builds a client from endpoint settings.
func NewOpenAIClient(cfg Settings) (*OpenAIClient, error) {
	if cfg.Model == "" {
		return nil, errors.New("model is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("api key missing; set it in config or the environment")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{model: cfg.Model, opts: opts}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	client := openai.NewClient(c.opts...)

	params := openai.CompletionNewParams{
		Model:       openai.CompletionNewParamsModel(c.model),
		Prompt:      openai.CompletionNewParamsPromptUnion{OfString: openai.String(req.Prompt)},
		MaxTokens:   openai.Int(req.Params.MaxTokens),
		Temperature: openai.Float(req.Params.Temperature),
	}
	if req.Params.TopP > 0 {
		params.TopP = openai.Float(req.Params.TopP)
	}
	if req.Params.Seed > 0 {
		params.Seed = openai.Int(req.Params.Seed)
	}

	resp, err := client.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Text, nil
}

func (c *OpenAIClient) Chat(ctx context.Context, system, user string, p Params) (string, error) {
	client := openai.NewClient(c.opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(p.MaxTokens),
		Temperature: openai.Float(p.Temperature),
	}
	if p.Seed > 0 {
		params.Seed = openai.Int(p.Seed)
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
