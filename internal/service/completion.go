package service

import "context"

// Message is one role-tagged turn sent to the completion service. An
// ImageBase64 payload, when present, is inlined next to the text.
type Message struct {
	Role        string
	Text        string
	ImageBase64 string
}

// Usage reports token consumption of one completion call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalCost        float64
}

// Completion is the single generated message returned by the service.
type Completion struct {
	Content string
	Model   string
	Usage   Usage
}

// CompletionClient is the stateless request -> generated-text capability the
// pipeline and the chat protocol are built on.
type CompletionClient interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (*Completion, error)
}
