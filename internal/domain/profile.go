package domain

import "time"

// Profile is the per-user skill document. Empty fields mean unset; absence
// of the document is not an error.
type Profile struct {
	UserID         string
	SkillLevel     string
	ToolPreference string
	UpdatedAt      time.Time
}

// UserContext is the read-only personalization snapshot taken once at
// pipeline start.
type UserContext struct {
	SkillLevel     string
	ToolPreference string
	OwnedTools     []string
}
