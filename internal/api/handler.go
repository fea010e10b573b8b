// Package api provides the HTTP handlers for the coaching API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/coai/internal/catalog"
	"github.com/alexanderramin/coai/internal/coaching"
	"github.com/alexanderramin/coai/internal/domain"
	"github.com/alexanderramin/coai/internal/prompt"
)

// ChatService is the slice of the coaching service the handlers use.
type ChatService interface {
	Start(ctx context.Context, key domain.SessionKey, lang domain.Language) (*coaching.Reply, error)
	Message(ctx context.Context, key domain.SessionKey, lang domain.Language, history []domain.Message) (*coaching.Reply, error)
}

// Handler serves the chat and catalog endpoints.
type Handler struct {
	chat    ChatService
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewHandler creates a Handler with its dependencies.
func NewHandler(chat ChatService, cat *catalog.Catalog, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{chat: chat, catalog: cat, logger: logger}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	TopicID   string           `json:"topicId"`
	SessionID string           `json:"sessionId"`
	Action    string           `json:"action"`
	Message   string           `json:"message,omitempty"`
	Messages  []domain.Message `json:"messages,omitempty"`
	Language  string           `json:"language,omitempty"`
}

// chatResponse is the success body of POST /api/chat.
type chatResponse struct {
	Message  string `json:"message"`
	Fallback bool   `json:"fallback"`
}

const (
	actionStart   = "start"
	actionMessage = "message"
)

// Chat handles POST /api/chat for both session start and follow-up
// turns. Provider failures never reach this layer as errors; they
// arrive as fallback replies.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	key := domain.SessionKey{TopicID: req.TopicID, SessionID: req.SessionID}
	if err := key.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	lang := domain.ParseLanguage(req.Language)

	var reply *coaching.Reply
	var err error
	switch req.Action {
	case actionStart:
		reply, err = h.chat.Start(r.Context(), key, lang)
	case actionMessage:
		// The client sends the full conversation including its newest
		// user turn in messages; the separate message field is only a
		// convenience mirror of that last turn.
		if err := domain.ValidateHistory(req.Messages); err != nil {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
		reply, err = h.chat.Message(r.Context(), key, lang, req.Messages)
	default:
		Error(w, http.StatusBadRequest, "invalid action")
		return
	}

	if err != nil {
		if errors.Is(err, prompt.ErrNotFound) {
			Error(w, http.StatusNotFound, "session prompt not found")
			return
		}
		h.logger.Error("chat request failed", "session", key.String(), "action", req.Action, "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	JSON(w, http.StatusOK, chatResponse{Message: reply.Message, Fallback: reply.Fallback})
}

// Topics handles GET /api/topics.
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	lang := domain.ParseLanguage(r.URL.Query().Get("lang"))
	JSON(w, http.StatusOK, h.catalog.Topics(lang))
}

// Topic handles GET /api/topics/{topic}.
func (h *Handler) Topic(w http.ResponseWriter, r *http.Request) {
	lang := domain.ParseLanguage(r.URL.Query().Get("lang"))
	topic, err := h.catalog.Topic(topicIDFromRequest(r), lang)
	if err != nil {
		Error(w, http.StatusNotFound, "unknown topic")
		return
	}
	JSON(w, http.StatusOK, topic)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
