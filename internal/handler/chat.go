package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parley/parley/internal/service"
)

// ChatHandler handles conversation history requests.
type ChatHandler struct {
	messaging *service.MessagingService
	logger    *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(messaging *service.MessagingService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		messaging: messaging,
		logger:    logger,
	}
}

// Conversation handles GET /chat/{userID}/{otherID}. Messages flow in
// both directions and come back ordered ascending by timestamp.
func (h *ChatHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	otherID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "otherID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	messages, err := h.messaging.Conversation(r.Context(), userID, otherID)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
