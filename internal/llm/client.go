// Package llm is the inference boundary: it sends a rendered prompt bundle
// to a model and returns the raw grounded reply for the caller to parse.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/webact/webact-go/internal/prompt"
)

// Client generates the model's next-action reply for one turn. The optional
// screenshot is a base64-encoded JPEG of the current viewport.
type Client interface {
	Generate(ctx context.Context, bundle prompt.Bundle, screenshotB64 string) (string, error)
}

type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAIClient(model string, temperature float64) (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: float32(temperature),
	}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, bundle prompt.Bundle, screenshotB64 string) (string, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: bundle.Referring},
	}
	if screenshotB64 != "" {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: "data:image/jpeg;base64," + screenshotB64,
			},
		})
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: bundle.Query},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		Temperature: c.temperature,
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		resp, err = c.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}
		// Rate limits back off; everything else surfaces immediately.
		if strings.Contains(err.Error(), "429") {
			select {
			case <-time.After(time.Duration(3*(1<<attempt)) * time.Second):
				continue
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		return "", fmt.Errorf("inference call failed: %w", err)
	}
	if err != nil {
		return "", fmt.Errorf("inference call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("inference returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
