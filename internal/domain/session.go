package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a session transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DiagnosisContext is the frozen personalization snapshot attached to a
// session at creation time. It is never re-read from the live profile.
type DiagnosisContext struct {
	Object         string   `json:"object"`
	Issue          string   `json:"issue"`
	LikelyCause    string   `json:"likelyCause"`
	TaskType       string   `json:"taskType"`
	SkillLevel     string   `json:"skillLevel"`
	ToolPreference string   `json:"toolPreference"`
	OwnedTools     []string `json:"ownedTools"`
}

// ChatSession is the persisted, append-only conversation transcript for one
// diagnosis. Version supports compare-and-swap updates.
type ChatSession struct {
	ID        string
	OwnerID   string
	Context   DiagnosisContext
	Messages  []ChatMessage
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
