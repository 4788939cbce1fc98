package server

import (
	"net/http"

	"github.com/fixmate/fixmate/internal/auth"
	"github.com/fixmate/fixmate/internal/handler"
	"github.com/fixmate/fixmate/internal/middleware"
)

func NewMux(h *handler.Handler, verifier auth.Verifier) http.Handler {
	mux := http.NewServeMux()

	// Callable operations
	mux.HandleFunc("POST /v1/diagnose", h.HandleDiagnose)
	mux.HandleFunc("POST /v1/chat/continue", h.HandleContinueChat)

	// History and personalization documents
	mux.HandleFunc("GET /v1/results", h.HandleListResults)
	mux.HandleFunc("GET /v1/profile", h.HandleGetProfile)
	mux.HandleFunc("PUT /v1/profile", h.HandlePutProfile)
	mux.HandleFunc("GET /v1/inventory", h.HandleListInventory)
	mux.HandleFunc("POST /v1/inventory", h.HandleAddTool)
	mux.HandleFunc("DELETE /v1/inventory/{tool}", h.HandleRemoveTool)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var root http.Handler = mux
	root = middleware.Auth(verifier)(root)
	root = middleware.Logging(root)
	root = middleware.CORS(root)
	root = middleware.Recover(root)
	return root
}
