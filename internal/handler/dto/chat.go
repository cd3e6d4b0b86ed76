// Package dto defines request and response shapes for the HTTP API
// and the websocket event payloads.
package dto

import "github.com/parley/parley/internal/model"

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse is returned on successful signup.
type SignupResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    *model.SafeUser `json:"user"`
}

// LoginResponse is returned on successful login. No token or session
// is issued; the caller keeps the identity client-side.
type LoginResponse struct {
	Success bool            `json:"success"`
	User    *model.SafeUser `json:"user"`
}

// ErrorResponse is the uniform error body for the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendMessagePayload is the data of an inbound sendMessage event.
// Sender and receiver are hex object IDs.
type SendMessagePayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Text     string `json:"text"`
}
