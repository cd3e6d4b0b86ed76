package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parley/parley/internal/model"
	"github.com/parley/parley/internal/testutil"
)

func TestMessagingService_Send(t *testing.T) {
	store := testutil.NewMemMessageStore()
	broadcast := testutil.NewRecordingBroadcaster()
	svc := NewMessagingService(store, broadcast, nil)

	sender := primitive.NewObjectID()
	receiver := primitive.NewObjectID()
	before := time.Now().UTC()

	msg, err := svc.Send(context.Background(), sender, receiver, "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if msg.ID.IsZero() {
		t.Error("expected store-assigned message ID")
	}
	if msg.Sender != sender || msg.Receiver != receiver || msg.Text != "hi" {
		t.Errorf("persisted message does not match input: %+v", msg)
	}
	if msg.Timestamp.Before(before) {
		t.Errorf("timestamp %v precedes call start %v", msg.Timestamp, before)
	}

	events := broadcast.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one broadcast per send, got %d", len(events))
	}
	if events[0].Name != EventReceiveMessage {
		t.Errorf("expected %q event, got %q", EventReceiveMessage, events[0].Name)
	}
	payload, ok := events[0].Payload.(*model.Message)
	if !ok {
		t.Fatalf("receiveMessage payload must be the full message, got %T", events[0].Payload)
	}
	if payload.ID != msg.ID {
		t.Error("broadcast payload must be the persisted message")
	}
}

func TestMessagingService_Send_EmptyText(t *testing.T) {
	store := testutil.NewMemMessageStore()
	broadcast := testutil.NewRecordingBroadcaster()
	svc := NewMessagingService(store, broadcast, nil)

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), tt.text)
			if !errors.Is(err, ErrEmptyMessage) {
				t.Errorf("expected ErrEmptyMessage, got %v", err)
			}
		})
	}

	if len(broadcast.Events()) != 0 {
		t.Error("failed sends must not broadcast")
	}
}

func TestMessagingService_Send_ZeroIDs(t *testing.T) {
	svc := NewMessagingService(testutil.NewMemMessageStore(), nil, nil)

	_, err := svc.Send(context.Background(), primitive.NilObjectID, primitive.NewObjectID(), "hi")
	if !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for zero sender, got %v", err)
	}

	_, err = svc.Send(context.Background(), primitive.NewObjectID(), primitive.NilObjectID, "hi")
	if !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for zero receiver, got %v", err)
	}
}

func TestMessagingService_Conversation(t *testing.T) {
	store := testutil.NewMemMessageStore()
	svc := NewMessagingService(store, nil, nil)

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	for _, send := range []struct {
		from, to primitive.ObjectID
		text     string
	}{
		{a, b, "first"},
		{b, a, "second"},
		{a, c, "unrelated"},
		{a, b, "third"},
	} {
		if _, err := svc.Send(context.Background(), send.from, send.to, send.text); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}

	forward, err := svc.Conversation(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Conversation failed: %v", err)
	}
	backward, err := svc.Conversation(context.Background(), b, a)
	if err != nil {
		t.Fatalf("Conversation failed: %v", err)
	}

	if len(forward) != 3 {
		t.Fatalf("expected 3 messages between a and b, got %d", len(forward))
	}
	if len(backward) != len(forward) {
		t.Fatalf("Conversation(a,b) and Conversation(b,a) differ: %d vs %d", len(forward), len(backward))
	}
	for i := range forward {
		if forward[i].ID != backward[i].ID {
			t.Errorf("conversation order differs at %d", i)
		}
	}

	for i := 1; i < len(forward); i++ {
		if forward[i].Timestamp.Before(forward[i-1].Timestamp) {
			t.Errorf("messages not ordered ascending by timestamp at %d", i)
		}
	}
	for _, m := range forward {
		if m.Text == "unrelated" {
			t.Error("conversation must only include messages between the two users")
		}
	}
}
