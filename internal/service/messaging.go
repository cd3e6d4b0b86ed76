package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parley/parley/internal/metrics"
	"github.com/parley/parley/internal/model"
)

// MessagingService persists messages and notifies connected listeners.
type MessagingService struct {
	store     MessageStore
	broadcast Broadcaster
	metrics   metrics.Recorder
}

// NewMessagingService creates a new MessagingService.
func NewMessagingService(store MessageStore, broadcast Broadcaster, recorder metrics.Recorder) *MessagingService {
	if broadcast == nil {
		broadcast = NoopBroadcaster{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MessagingService{
		store:     store,
		broadcast: broadcast,
		metrics:   recorder,
	}
}

// Send persists a message and broadcasts a receiveMessage event with the
// full persisted record to every connected listener, not just the receiver.
//
// Sender and receiver are opaque references trusted from the caller; they
// are not checked against the users collection.
func (s *MessagingService) Send(ctx context.Context, sender, receiver primitive.ObjectID, text string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if sender.IsZero() || receiver.IsZero() {
		return nil, ErrMissingFields
	}

	msg := &model.Message{
		Sender:   sender,
		Receiver: receiver,
		Text:     text,
	}

	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.metrics.IncMessageSent()
	s.broadcast.BroadcastAll(EventReceiveMessage, msg)

	return msg, nil
}

// Conversation returns the full message history between two users,
// in either direction, ordered ascending by timestamp.
func (s *MessagingService) Conversation(ctx context.Context, userID, otherID primitive.ObjectID) ([]model.Message, error) {
	messages, err := s.store.ListConversation(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}

	return messages, nil
}
