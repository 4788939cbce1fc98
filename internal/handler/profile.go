package handler

import (
	"net/http"

	"github.com/fixmate/fixmate/internal/domain"
	"github.com/fixmate/fixmate/internal/middleware"
)

type profilePayload struct {
	SkillLevel     string `json:"skillLevel"`
	ToolPreference string `json:"toolPreference"`
}

type profileResponse struct {
	Success        bool   `json:"success"`
	SkillLevel     string `json:"skillLevel"`
	ToolPreference string `json:"toolPreference"`
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profileResponse{
		Success:        true,
		SkillLevel:     profile.SkillLevel,
		ToolPreference: profile.ToolPreference,
	})
}

func (h *Handler) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	var body profilePayload
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}

	profile := &domain.Profile{
		UserID:         identity.UserID,
		SkillLevel:     body.SkillLevel,
		ToolPreference: body.ToolPreference,
	}
	if err := h.profiles.PutProfile(r.Context(), profile); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profileResponse{
		Success:        true,
		SkillLevel:     profile.SkillLevel,
		ToolPreference: profile.ToolPreference,
	})
}
