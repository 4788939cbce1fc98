package service

import (
	"context"
	"encoding/base64"
	"fmt"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.model }

func (g *GeminiClient) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		parts := []*genai.Part{}
		if m.Text != "" {
			parts = append(parts, &genai.Part{Text: m.Text})
		}
		if m.ImageBase64 != "" {
			data, err := base64.StdEncoding.DecodeString(m.ImageBase64)
			if err != nil {
				return nil, fmt.Errorf("decode image: %w", err)
			}
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: data},
			})
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	out := &Completion{
		Content: resp.Candidates[0].Content.Parts[0].Text,
		Model:   g.model,
	}
	if resp.UsageMetadata != nil {
		out.Usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.Usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
