package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const maxMessageLen = 4000

type chatRequest struct {
	Message string `json:"message"`
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if !decodeBody(w, r, &req) {
			return
		}
		msg := strings.TrimSpace(req.Message)
		if msg == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}
		if utf8.RuneCountInString(msg) > maxMessageLen {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message exceeds %d characters", maxMessageLen)
			return
		}
		writeJSON(w, http.StatusOK, deps.Agent.Chat(r.Context(), msg))
	}
}

func handleClearHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Agent.ClearHistory()
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRoadmapAdvice(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Agent.RoadmapAdvice(r.Context()))
	}
}

func handleAnalysis(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Agent.AnalyzeProfile(r.Context()))
	}
}

type interactionResponse struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	Kind        string `json:"kind"`
	UserMessage string `json:"user_message,omitempty"`
	Model       string `json:"model,omitempty"`
	Response    string `json:"response,omitempty"`
	ReplyType   string `json:"reply_type"`
	Status      string `json:"status"`
}

func handleListInteractions(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "limit must be a positive integer")
				return
			}
			limit = min(n, 200)
		}

		items, err := deps.Interactions.GetRecentInteractions(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list interactions: %v", err)
			return
		}
		out := make([]interactionResponse, len(items))
		for i, it := range items {
			out[i] = interactionResponse{
				ID:          it.ID,
				CreatedAt:   it.CreatedAt.Format(time.RFC3339),
				Kind:        it.Kind,
				UserMessage: it.UserMessage,
				Model:       it.Model,
				Response:    it.Response,
				ReplyType:   it.ReplyType,
				Status:      it.Status,
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"interactions": out})
	}
}

func handleDeleteInteractions(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := deps.Interactions.DeleteInteractions()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete interactions: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
	}
}
