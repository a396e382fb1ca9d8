package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"storymaker/pkg/story"
)

// LlamaCompleter talks to a local llama.cpp-style server through its
// OpenAI-compatible endpoint. top_k and repeat_penalty are not part of the
// OpenAI schema, so they ride along as extra JSON fields.
type LlamaCompleter struct {
	client  *openai.Client
	baseURL string
}

// NewLlamaCompleter builds a completer for the given server. An empty base
// URL means no inference server is configured at all.
func NewLlamaCompleter(baseURL string) (*LlamaCompleter, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: no inference server URL configured", story.ErrCapabilityUnavailable)
	}
	client := openai.NewClient(
		option.WithAPIKey("local"),
		option.WithBaseURL(baseURL),
	)
	return &LlamaCompleter{
		client:  &client,
		baseURL: baseURL,
	}, nil
}

func (l *LlamaCompleter) params(prompt string, opts Options) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Role: "user",
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: param.Opt[string]{Value: prompt},
					},
				},
			},
		},
		MaxCompletionTokens: openai.Int(int64(opts.MaxTokens)),
		Temperature:         openai.Float(opts.Temperature),
		TopP:                openai.Float(opts.TopP),
	}
}

func (l *LlamaCompleter) requestOptions(opts Options) []option.RequestOption {
	var extra []option.RequestOption
	if opts.TopK > 0 {
		extra = append(extra, option.WithJSONSet("top_k", opts.TopK))
	}
	if opts.RepeatPenalty > 0 {
		extra = append(extra, option.WithJSONSet("repeat_penalty", opts.RepeatPenalty))
	}
	return extra
}

// Complete sends the prompt and returns the full completion text.
func (l *LlamaCompleter) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	resp, err := l.client.Chat.Completions.New(ctx, l.params(prompt, opts), l.requestOptions(opts)...)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion content")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream forwards delta tokens to fn until the model stops, fn errors, or
// ctx is cancelled.
func (l *LlamaCompleter) Stream(ctx context.Context, prompt string, opts Options, fn func(token string) error) error {
	stream := l.client.Chat.Completions.NewStreaming(ctx, l.params(prompt, opts), l.requestOptions(opts)...)
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		token := chunk.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		if err := fn(token); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("completion stream: %w", err)
	}
	return nil
}
