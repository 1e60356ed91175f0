package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kutuphane/apiserver/internal/events"
	"github.com/kutuphane/apiserver/internal/services"
	"github.com/kutuphane/apiserver/types"
)

// MessageHandler provides HTTP handlers for direct messages.
type MessageHandler struct {
	messageService *services.MessageService
	publisher      *events.Publisher
}

// NewMessageHandler constructs a handler with the provided dependencies.
func NewMessageHandler(messageService *services.MessageService, publisher *events.Publisher) *MessageHandler {
	return &MessageHandler{messageService: messageService, publisher: publisher}
}

// MessageRouter registers the messaging routes. The caller mounts it
// behind auth middleware.
func MessageRouter(r chi.Router, messageService *services.MessageService, publisher *events.Publisher) {
	handler := NewMessageHandler(messageService, publisher)

	r.Get("/", handler.ListMessages)
	r.Post("/", handler.SendMessage)
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages, err := h.messageService.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	writeJSON(w, http.StatusOK, MessageListResponse{Items: messages, Total: len(messages)})
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.ToID < 1 || req.Content == "" {
		writeError(w, http.StatusBadRequest, "recipient and content are required")
		return
	}

	message, err := h.messageService.Send(r.Context(), userID, req.ToID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrRecipientNotFound) {
			writeError(w, http.StatusNotFound, "recipient not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	if err := h.publisher.MessageSent(r.Context(), message.ID, message.FromID, message.ToID); err != nil {
		log.Printf("publish message.sent: %v", err)
	}

	writeJSON(w, http.StatusCreated, message)
}

// SendMessageRequest is the payload for sending a message.
type SendMessageRequest struct {
	ToID    int    `json:"to_id"`
	Content string `json:"content"`
}

// MessageListResponse is the list response payload.
type MessageListResponse struct {
	Items []types.Message `json:"items"`
	Total int             `json:"total"`
}
