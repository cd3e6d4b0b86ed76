package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parley/parley/internal/service"
)

// UserHandler handles user listing requests.
type UserHandler struct {
	identity *service.IdentityService
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(identity *service.IdentityService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		identity: identity,
		logger:   logger,
	}
}

// List handles GET /users/{id}. It returns every user except the one
// identified in the path, so a client can build its contact list.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	users, err := h.identity.ListOtherUsers(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
