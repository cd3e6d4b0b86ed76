// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parley/parley/internal/model"
)

// Service errors. All of them map to HTTP 400 in the API layer;
// anything else surfaces as a generic 500.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyMessage       = errors.New("message text is required")
)

// Event names broadcast over the notification channel.
const (
	// EventNewUser is broadcast to all listeners on successful signup.
	EventNewUser = "newUser"
	// EventReceiveMessage is broadcast to all listeners when a message persists.
	EventReceiveMessage = "receiveMessage"
	// EventSendMessage is the inbound channel event carrying a new message.
	EventSendMessage = "sendMessage"
)

// UserStore is the persistence surface the identity service depends on.
// Implementations return repository.ErrUserNotFound and
// repository.ErrEmailExists for the corresponding conditions.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsersExcept(ctx context.Context, exclude primitive.ObjectID) ([]model.User, error)
}

// MessageStore is the persistence surface the messaging service depends on.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *model.Message) error
	ListConversation(ctx context.Context, a, b primitive.ObjectID) ([]model.Message, error)
}

// Broadcaster delivers an event to every currently connected listener.
// Delivery is fire-and-forget: failures never propagate to the caller.
type Broadcaster interface {
	BroadcastAll(event string, payload any)
}

// NoopBroadcaster discards all events. Useful in tests and tooling.
type NoopBroadcaster struct{}

// BroadcastAll is a no-op.
func (NoopBroadcaster) BroadcastAll(event string, payload any) {}
