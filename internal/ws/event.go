// Package ws implements the live-push notification channel: a WebSocket hub
// that fans events out to every connected client.
package ws

import (
	"context"
	"encoding/json"
)

// Envelope is the wire format for channel events in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EventHandler processes a single inbound channel event. The returned error
// is logged uniformly by the transport; handlers do not log their own
// failures.
type EventHandler func(ctx context.Context, event string, data json.RawMessage) error
