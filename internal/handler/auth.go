package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/parley/parley/internal/handler/dto"
	"github.com/parley/parley/internal/service"
)

// AuthHandler handles signup and login requests.
type AuthHandler struct {
	identity *service.IdentityService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity *service.IdentityService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		logger:   logger,
	}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.identity.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("user_signed_up",
		"user_id", user.ID.Hex(),
		"email", user.Email,
	)

	writeJSON(w, http.StatusOK, dto.SignupResponse{
		Success: true,
		Message: "User registered successfully",
		User:    user,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID.Hex())

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		User:    user,
	})
}
