package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fixmate/fixmate/internal/config"
)

// OpenRouterClient talks to the OpenRouter chat-completions API.
type OpenRouterClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenRouterClient(apiKey, model string) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://openrouter.ai/api/v1",
		httpClient: &http.Client{Timeout: config.CompletionTimeout},
	}
}

func (c *OpenRouterClient) Name() string { return "openrouter:" + c.model }

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int     `json:"prompt_tokens"`
		CompletionTokens int     `json:"completion_tokens"`
		TotalCost        float64 `json:"total_cost"`
	} `json:"usage"`
}

func (c *OpenRouterClient) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	chatReq := chatRequest{Model: c.model, Messages: make([]chatMessage, 0, len(messages))}
	for _, m := range messages {
		chatReq.Messages = append(chatReq.Messages, toChatMessage(m))
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited by OpenRouter (429)")
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("OpenRouter unavailable (%d)", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	return &Completion{
		Content: chatResp.Choices[0].Message.Content,
		Model:   c.model,
		Usage: Usage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalCost:        chatResp.Usage.TotalCost,
		},
	}, nil
}

func toChatMessage(m Message) chatMessage {
	if m.ImageBase64 == "" {
		return chatMessage{Role: m.Role, Content: m.Text}
	}
	parts := []interface{}{}
	if m.Text != "" {
		parts = append(parts, map[string]interface{}{"type": "text", "text": m.Text})
	}
	parts = append(parts, map[string]interface{}{
		"type": "image_url",
		"image_url": map[string]string{
			"url": "data:image/jpeg;base64," + m.ImageBase64,
		},
	})
	return chatMessage{Role: m.Role, Content: parts}
}
