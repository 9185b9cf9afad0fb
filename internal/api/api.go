package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"nexusdash/pkg/nexusdash"
)

// NewRouter builds the HTTP API router.
func NewRouter(core *nexusdash.Core) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(core.Logger()))
	r.Use(recoveryLoggingMiddleware(core.Logger()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core, logger: core.Logger()}

	r.Get("/api/health", h.health)
	r.Get("/api/portfolio", h.getPortfolio)
	r.Get("/api/strategies", h.getStrategies)

	// Chat sessions
	r.Post("/api/chat/sessions", h.createChatSession)
	r.Get("/api/chat/sessions/{id}/messages", h.getChatMessages)
	r.Post("/api/chat/sessions/{id}/messages", h.postChatMessage)
	r.Post("/api/chat/sessions/{id}/stream", h.streamChatMessage)
	r.Delete("/api/chat/sessions/{id}", h.closeChatSession)

	// Optimizer sessions
	r.Post("/api/optimizer/sessions", h.createOptimizerSession)
	r.Get("/api/optimizer/sessions/{id}", h.getOptimizerSession)
	r.Post("/api/optimizer/sessions/{id}/run", h.runOptimization)
	r.Delete("/api/optimizer/sessions/{id}", h.closeOptimizerSession)

	return r
}

type handler struct {
	core   *nexusdash.Core
	logger *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
