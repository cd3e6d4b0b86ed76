// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Identity metrics
	IncUserSignedUp()
	IncLoginAttempt(status string) // status: "success" or "failed"

	// Messaging metrics
	IncMessageSent()

	// Notification channel metrics
	IncEventBroadcast()
	IncClientDropped()
	SetConnectedClients(n int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
