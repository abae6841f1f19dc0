// Package api exposes the assistant, check-ins, profile and insights over a
// local JSON HTTP API and as MCP tools.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/helene/internal/assistant"
	"github.com/kalambet/helene/internal/pipeline"
	"github.com/kalambet/helene/internal/profile"
	"github.com/kalambet/helene/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// historyTurns is how many stored turns are replayed when a request names a
// session but carries no history.
const historyTurns = 10

// Deps holds everything the handlers need.
type Deps struct {
	Store     *storage.Store
	Profile   *profile.Manager
	Loader    *pipeline.Loader
	Assistant *assistant.Assistant
}

// NewHandler returns the HTTP API router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(deps))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/assistant/reply", handleReply(deps))
		r.Post("/assistant/weekly-summary", handleWeeklySummary(deps))

		r.Get("/logs", handleListLogs(deps))
		r.Get("/logs/{date}", handleGetLog(deps))
		r.Put("/logs/{date}", handlePutLog(deps))
		r.Delete("/logs/{date}", handleDeleteLog(deps))

		r.Get("/profile", handleGetProfile(deps))
		r.Patch("/profile", handlePatchProfile(deps))

		r.Get("/insights", handleInsights(deps))

		r.Get("/interactions", handleListInteractions(deps))
		r.Get("/interactions/{id}", handleGetInteraction(deps))
	})

	return r
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"mode":   string(deps.Assistant.Mode()),
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response", "error", err)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
