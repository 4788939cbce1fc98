package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fixmate/fixmate/internal/config"
	"github.com/fixmate/fixmate/internal/domain"
	"github.com/fixmate/fixmate/internal/middleware"
)

type resultItem struct {
	ID              string            `json:"id"`
	Object          string            `json:"object"`
	Issue           string            `json:"issue"`
	LikelyCause     string            `json:"likelyCause"`
	TaskType        string            `json:"taskType"`
	Instructions    string            `json:"instructions"`
	ToolSuggestions string            `json:"toolSuggestions"`
	ToolLinks       []domain.ToolLink `json:"toolLinks,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type resultsResponse struct {
	Success bool         `json:"success"`
	Results []resultItem `json:"results"`
}

// HandleListResults returns the caller's diagnosis history, newest first.
func (h *Handler) HandleListResults(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	limit := queryInt(r, "limit", config.ResultsPerPageDefault)
	if limit < 1 || limit > config.ResultsPerPageMax {
		limit = config.ResultsPerPageDefault
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	records, err := h.results.ListByOwner(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	items := make([]resultItem, 0, len(records))
	for _, rec := range records {
		items = append(items, resultItem{
			ID:              rec.ID,
			Object:          rec.Object,
			Issue:           rec.Issue,
			LikelyCause:     rec.LikelyCause,
			TaskType:        rec.TaskType,
			Instructions:    rec.Instructions,
			ToolSuggestions: rec.ToolSuggestions,
			ToolLinks:       rec.ToolLinks,
			CreatedAt:       rec.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, resultsResponse{Success: true, Results: items})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
