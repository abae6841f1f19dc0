package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/helene/internal/assistant"
	"github.com/kalambet/helene/internal/health"
	"github.com/kalambet/helene/internal/pipeline"
	"github.com/kalambet/helene/internal/storage"
)

type replyRequest struct {
	Message     string              `json:"message"`
	SessionID   string              `json:"session_id,omitempty"`
	UserContext *health.UserContext `json:"user_context,omitempty"`
	History     []health.Turn       `json:"history,omitempty"`
}

type replyResponse struct {
	Reply         string         `json:"reply"`
	Mode          assistant.Mode `json:"mode"`
	InteractionID string         `json:"interaction_id"`
}

type summaryRequest struct {
	UserContext *health.UserContext `json:"user_context,omitempty"`
}

type summaryResponse struct {
	Summary string         `json:"summary"`
	Mode    assistant.Mode `json:"mode"`
}

func handleReply(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req replyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}
		for i, t := range req.History {
			if !health.ValidRole(t.Role) {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "history[%d]: unknown role %q", i, t.Role)
				return
			}
		}

		resp, id, err := converse(r.Context(), deps, req)
		if err != nil {
			var ae *assistant.Error
			if errors.As(err, &ae) {
				httpError(w, ae.Status, string(ae.Kind)+"_error", "%s", ae.Message)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "reply failed: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, replyResponse{Reply: resp.Text, Mode: resp.Mode, InteractionID: id})
	}
}

// converse answers one message, filling in the stored context and history
// when the request does not carry them, and records the exchange. Storage
// failures are logged and never fail the reply.
func converse(ctx context.Context, deps Deps, req replyRequest) (assistant.Response, string, error) {
	var uc health.UserContext
	if req.UserContext != nil {
		uc = *req.UserContext
	} else {
		var meta pipeline.LoadMetadata
		uc, meta = deps.Loader.Load(ctx)
		slog.Debug("user context loaded",
			"profile", meta.ProfileLoaded,
			"logs", meta.LogsUsed,
			"duration_ms", meta.LoadDurationMs,
		)
	}

	history := req.History
	if history == nil && req.SessionID != "" {
		history = deps.Loader.History(req.SessionID, historyTurns)
	}

	resp, err := deps.Assistant.Reply(ctx, assistant.Request{
		Message: req.Message,
		Context: uc,
		History: history,
	})

	in := storage.Interaction{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		SessionID:   req.SessionID,
		UserMessage: req.Message,
		Reply:       resp.Text,
		Mode:        string(resp.Mode),
		Model:       resp.Model,
		Status:      "completed",
	}
	if err != nil {
		in.Status = "failed"
		in.ErrorKind = string(assistant.KindOf(err))
	}
	if serr := deps.Store.SaveInteraction(in); serr != nil {
		slog.Warn("failed to record interaction", "error", serr)
	}

	if req.SessionID != "" && err == nil {
		for _, t := range []health.Turn{
			{Role: health.RoleUser, Content: req.Message},
			{Role: health.RoleAssistant, Content: resp.Text},
		} {
			if serr := deps.Store.AppendTurn(req.SessionID, t); serr != nil {
				slog.Warn("failed to store conversation turn", "session_id", req.SessionID, "error", serr)
				break
			}
		}
	}

	return resp, in.ID, err
}

func handleWeeklySummary(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req summaryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		var uc health.UserContext
		if req.UserContext != nil {
			uc = *req.UserContext
		} else {
			uc, _ = deps.Loader.Load(r.Context())
		}

		resp, err := deps.Assistant.WeeklySummary(r.Context(), uc)
		if err != nil {
			var ae *assistant.Error
			if errors.As(err, &ae) {
				httpError(w, ae.Status, string(ae.Kind)+"_error", "%s", ae.Message)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "summary failed: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, summaryResponse{Summary: resp.Text, Mode: resp.Mode})
	}
}
