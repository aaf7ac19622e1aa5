package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/internal/event"
	"github.com/sandevgo/chatminder/pkg/log"
)

// Refiner derives a rephrased version of candidate message text without
// persisting anything.
type Refiner interface {
	Preview(ctx context.Context, chatID, text string) (string, error)
}

type Handler struct {
	chats    core.ChatsRepository
	messages core.MessagesRepository
	bus      *event.Bus
	refiner  Refiner
}

func NewHandler(chats core.ChatsRepository, messages core.MessagesRepository, bus *event.Bus, refiner Refiner) *Handler {
	return &Handler{
		chats:    chats,
		messages: messages,
		bus:      bus,
		refiner:  refiner,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createChatRequest struct {
	Participants []string `json:"participants"`
}

func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Participants) < 2 {
		writeError(w, http.StatusBadRequest, "a chat needs at least two participants")
		return
	}
	for _, p := range req.Participants {
		if strings.TrimSpace(p) == "" {
			writeError(w, http.StatusBadRequest, "participant names must not be empty")
			return
		}
	}

	chat, err := h.chats.CreateChat(r.Context(), req.Participants)
	if err != nil {
		h.serverError(w, r, err, "create chat")
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	if _, err := h.chats.GetChat(r.Context(), chatID); err != nil {
		h.notFoundOrServerError(w, r, err, "get chat")
		return
	}

	messages, err := h.messages.ChatMessages(r.Context(), chatID)
	if err != nil {
		h.serverError(w, r, err, "list messages")
		return
	}
	if messages == nil {
		messages = []core.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

type createMessageRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Sender == "" || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "sender and text are required")
		return
	}

	chat, err := h.chats.GetChat(r.Context(), chatID)
	if err != nil {
		h.notFoundOrServerError(w, r, err, "get chat")
		return
	}
	if !chat.HasParticipant(req.Sender) {
		writeError(w, http.StatusForbidden, "sender is not a chat participant")
		return
	}

	msg, err := h.messages.CreateMessage(r.Context(), core.ChatMessage{
		ChatID: chatID,
		Sender: req.Sender,
		Text:   req.Text,
	})
	if err != nil {
		h.serverError(w, r, err, "create message")
		return
	}

	if err := h.chats.TouchLastMessage(r.Context(), chatID, msg.Text, msg.Timestamp); err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Str("chat_id", chatID).Msg("failed to update chat preview")
	}

	h.bus.Publish(r.Context(), event.MessageEvent{Type: event.MessageCreated, Message: msg})
	writeJSON(w, http.StatusCreated, msg)
}

type updateMessageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	var req updateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	before, err := h.messages.GetMessage(r.Context(), messageID)
	if err != nil {
		h.notFoundOrServerError(w, r, err, "get message")
		return
	}

	if err := h.messages.UpdateText(r.Context(), messageID, req.Text); err != nil {
		h.notFoundOrServerError(w, r, err, "update message")
		return
	}

	after := before
	after.Text = req.Text

	h.bus.Publish(r.Context(), event.MessageEvent{Type: event.MessageUpdated, Before: before, Message: after})
	writeJSON(w, http.StatusOK, after)
}

type refineRequest struct {
	Text string `json:"text"`
}

type refineResponse struct {
	RefinedMessage string `json:"refined_message"`
}

// RefineMessage rephrases draft text synchronously for the composing
// user. Oracle failures come back as an empty refinement, not an error,
// so the client can fall back to the draft as typed.
func (h *Handler) RefineMessage(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "X-User-ID header is required")
		return
	}

	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	chat, err := h.chats.GetChat(r.Context(), chatID)
	if err != nil {
		h.notFoundOrServerError(w, r, err, "get chat")
		return
	}
	if !chat.HasParticipant(userID) {
		writeError(w, http.StatusForbidden, "user is not a chat participant")
		return
	}

	refined, err := h.refiner.Preview(r.Context(), chatID, req.Text)
	if err != nil {
		h.serverError(w, r, err, "refine message")
		return
	}
	writeJSON(w, http.StatusOK, refineResponse{RefinedMessage: refined})
}

func (h *Handler) notFoundOrServerError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, core.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	h.serverError(w, r, err, op)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error, op string) {
	log.FromCtx(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
