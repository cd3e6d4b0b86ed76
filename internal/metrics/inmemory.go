package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersSignedUp    uint64
	LoginSuccesses   uint64
	LoginFailures    uint64
	MessagesSent     uint64
	EventsBroadcast  uint64
	ClientsDropped   uint64
	ConnectedClients int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersSignedUp    uint64
	loginSuccesses   uint64
	loginFailures    uint64
	messagesSent     uint64
	eventsBroadcast  uint64
	clientsDropped   uint64
	connectedClients int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersSignedUp:    atomic.LoadUint64(&m.usersSignedUp),
		LoginSuccesses:   atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:    atomic.LoadUint64(&m.loginFailures),
		MessagesSent:     atomic.LoadUint64(&m.messagesSent),
		EventsBroadcast:  atomic.LoadUint64(&m.eventsBroadcast),
		ClientsDropped:   atomic.LoadUint64(&m.clientsDropped),
		ConnectedClients: atomic.LoadInt64(&m.connectedClients),
	}
}

// IncUserSignedUp increments the signup counter.
func (m *InMemoryRecorder) IncUserSignedUp() {
	atomic.AddUint64(&m.usersSignedUp, 1)
}

// IncLoginAttempt increments the login counter for the given status.
func (m *InMemoryRecorder) IncLoginAttempt(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncMessageSent increments the message counter.
func (m *InMemoryRecorder) IncMessageSent() {
	atomic.AddUint64(&m.messagesSent, 1)
}

// IncEventBroadcast increments the broadcast counter.
func (m *InMemoryRecorder) IncEventBroadcast() {
	atomic.AddUint64(&m.eventsBroadcast, 1)
}

// IncClientDropped increments the dropped-client counter.
func (m *InMemoryRecorder) IncClientDropped() {
	atomic.AddUint64(&m.clientsDropped, 1)
}

// SetConnectedClients records the current connected client count.
func (m *InMemoryRecorder) SetConnectedClients(n int64) {
	atomic.StoreInt64(&m.connectedClients, n)
}
