package domain

import "time"

// TaskType classifies a diagnosed problem.
const (
	TaskTypeRepair  = "repair"
	TaskTypeDIY     = "diy"
	TaskTypeUnknown = "unknown"
)

// DiagnosisRequest is the ephemeral input of one pipeline run. At least one
// of ImageBase64 or a non-empty TextDescription must be present.
type DiagnosisRequest struct {
	RequesterID     string
	ImageBase64     string
	TextDescription string
	TextOnlyMode    bool
}

// HasImage reports whether an image participates in the understanding call.
func (r DiagnosisRequest) HasImage() bool {
	return !r.TextOnlyMode && r.ImageBase64 != ""
}

// ToolLink pairs a product URL found in the tool suggestions with the title
// of the page it points at.
type ToolLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// DiagnosisRecord is the immutable result of one successful pipeline run.
type DiagnosisRecord struct {
	ID              string
	RequesterID     string
	Object          string
	Issue           string
	LikelyCause     string
	TaskType        string
	RawResult       string
	Instructions    string
	ToolSuggestions string
	ToolLinks       []ToolLink
	CreatedAt       time.Time
}
