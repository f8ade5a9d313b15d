// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()
	IncWelcomeMailSent()
	IncWelcomeMailFailed()
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	UsersCreated      int64
	UsersUpdated      int64
	UsersDeleted      int64
	WelcomeMailSent   int64
	WelcomeMailFailed int64
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
