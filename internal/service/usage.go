package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/fixmate/fixmate/internal/domain"
)

// UsageWriter appends ledger rows.
type UsageWriter interface {
	Insert(ctx context.Context, rec *domain.UsageRecord) error
}

// UsageService records token consumption and cost per completion call.
// Recording is best-effort: a ledger failure never affects the request.
type UsageService struct {
	store           UsageWriter
	promptPrice     float64 // USD per 1M tokens
	completionPrice float64
}

func NewUsageService(store UsageWriter, promptPrice, completionPrice float64) *UsageService {
	return &UsageService{
		store:           store,
		promptPrice:     promptPrice,
		completionPrice: completionPrice,
	}
}

func (s *UsageService) Record(ctx context.Context, userID, stage string, completion *Completion) {
	if s == nil || s.store == nil || completion == nil {
		return
	}

	cost := CalculateCost(completion.Usage.PromptTokens, completion.Usage.CompletionTokens, s.promptPrice, s.completionPrice)
	// Provider-reported cost wins when present.
	if completion.Usage.TotalCost > 0 {
		cost = decimal.NewFromFloat(completion.Usage.TotalCost)
	}

	rec := &domain.UsageRecord{
		UserID:           userID,
		Stage:            stage,
		Model:            completion.Model,
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
		Cost:             cost,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		slog.Warn("usage record failed", "user_id", userID, "stage", stage, "error", err)
	}
}

// CalculateCost converts token counts into USD given per-1M-token prices.
func CalculateCost(promptTokens, completionTokens int, promptPrice, completionPrice float64) decimal.Decimal {
	promptCost := decimal.NewFromFloat(float64(promptTokens) * promptPrice / 1_000_000)
	completionCost := decimal.NewFromFloat(float64(completionTokens) * completionPrice / 1_000_000)
	return promptCost.Add(completionCost)
}
