package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fixmate/fixmate/internal/domain"
	"github.com/fixmate/fixmate/internal/middleware"
)

type inventoryResponse struct {
	Success bool     `json:"success"`
	Tools   []string `json:"tools"`
}

type addToolRequest struct {
	Tool string `json:"tool"`
}

func (h *Handler) HandleListInventory(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	tools, err := h.profiles.ListTools(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if tools == nil {
		tools = []string{}
	}
	respondJSON(w, http.StatusOK, inventoryResponse{Success: true, Tools: tools})
}

func (h *Handler) HandleAddTool(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	var body addToolRequest
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}
	tool := strings.TrimSpace(body.Tool)
	if tool == "" {
		respondError(w, fmt.Errorf("%w: tool is required", domain.ErrInvalidArgument))
		return
	}

	if err := h.profiles.AddTool(r.Context(), identity.UserID, tool); err != nil {
		respondError(w, err)
		return
	}
	h.HandleListInventory(w, r)
}

func (h *Handler) HandleRemoveTool(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	tool := strings.TrimSpace(r.PathValue("tool"))
	if tool == "" {
		respondError(w, fmt.Errorf("%w: tool is required", domain.ErrInvalidArgument))
		return
	}

	if err := h.profiles.RemoveTool(r.Context(), identity.UserID, tool); err != nil {
		respondError(w, err)
		return
	}
	h.HandleListInventory(w, r)
}
