// Package testutil provides in-memory doubles for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parley/parley/internal/model"
	"github.com/parley/parley/internal/repository"
)

// MemUserStore is an in-memory user store for tests. It mirrors the
// repository contract, including the unique email constraint.
type MemUserStore struct {
	mu    sync.Mutex
	users []model.User
}

// NewMemUserStore returns an empty in-memory user store.
func NewMemUserStore() *MemUserStore {
	return &MemUserStore{}
}

// CreateUser inserts a user, enforcing email uniqueness.
func (s *MemUserStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	user.ID = primitive.NewObjectID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users = append(s.users, *user)
	return nil
}

// GetUserByEmail looks up a user by email.
func (s *MemUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// ListUsersExcept returns all users except the excluded ID.
func (s *MemUserStore) ListUsersExcept(_ context.Context, exclude primitive.ObjectID) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		if u.ID != exclude {
			out = append(out, u)
		}
	}
	return out, nil
}

// Count returns the number of stored users.
func (s *MemUserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// MemMessageStore is an in-memory message store for tests.
type MemMessageStore struct {
	mu       sync.Mutex
	messages []model.Message
}

// NewMemMessageStore returns an empty in-memory message store.
func NewMemMessageStore() *MemMessageStore {
	return &MemMessageStore{}
}

// CreateMessage inserts a message, defaulting its timestamp.
func (s *MemMessageStore) CreateMessage(_ context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = primitive.NewObjectID()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.messages = append(s.messages, *msg)
	return nil
}

// ListConversation returns messages between a and b in either direction,
// ordered ascending by timestamp.
func (s *MemMessageStore) ListConversation(_ context.Context, a, b primitive.ObjectID) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Message, 0)
	for _, m := range s.messages {
		if (m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Event is a broadcast captured by RecordingBroadcaster.
type Event struct {
	Name    string
	Payload any
}

// RecordingBroadcaster captures broadcast events for assertions.
type RecordingBroadcaster struct {
	mu     sync.Mutex
	events []Event
}

// NewRecordingBroadcaster returns an empty recording broadcaster.
func NewRecordingBroadcaster() *RecordingBroadcaster {
	return &RecordingBroadcaster{}
}

// BroadcastAll records the event.
func (b *RecordingBroadcaster) BroadcastAll(event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, Event{Name: event, Payload: payload})
}

// Events returns a copy of the recorded events.
func (b *RecordingBroadcaster) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}
