package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserSignedUp is a no-op.
func (n *NoopRecorder) IncUserSignedUp() {}

// IncLoginAttempt is a no-op.
func (n *NoopRecorder) IncLoginAttempt(status string) {}

// IncMessageSent is a no-op.
func (n *NoopRecorder) IncMessageSent() {}

// IncEventBroadcast is a no-op.
func (n *NoopRecorder) IncEventBroadcast() {}

// IncClientDropped is a no-op.
func (n *NoopRecorder) IncClientDropped() {}

// SetConnectedClients is a no-op.
func (n *NoopRecorder) SetConnectedClients(v int64) {}
