package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageRecord is one ledger row per completion-service call.
type UsageRecord struct {
	ID               int64
	UserID           string
	Stage            string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Cost             decimal.Decimal
	CreatedAt        time.Time
}
