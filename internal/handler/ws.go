package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parley/parley/internal/handler/dto"
	"github.com/parley/parley/internal/service"
	"github.com/parley/parley/internal/ws"
)

// NewEventRouter returns the EventHandler for inbound channel events.
// A sendMessage event persists the message and fans the stored record
// out to every connected client; unknown events are rejected.
func NewEventRouter(messaging *service.MessagingService) ws.EventHandler {
	return func(ctx context.Context, event string, data json.RawMessage) error {
		switch event {
		case service.EventSendMessage:
			return handleSendMessage(ctx, messaging, data)
		default:
			return fmt.Errorf("unknown event %q", event)
		}
	}
}

func handleSendMessage(ctx context.Context, messaging *service.MessagingService, data json.RawMessage) error {
	var payload dto.SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode sendMessage payload: %w", err)
	}

	sender, err := primitive.ObjectIDFromHex(payload.Sender)
	if err != nil {
		return fmt.Errorf("invalid sender id: %w", err)
	}
	receiver, err := primitive.ObjectIDFromHex(payload.Receiver)
	if err != nil {
		return fmt.Errorf("invalid receiver id: %w", err)
	}

	if _, err := messaging.Send(ctx, sender, receiver, payload.Text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
