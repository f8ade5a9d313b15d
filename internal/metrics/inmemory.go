package metrics

import "sync/atomic"

// InMemoryRecorder implements Recorder with atomic counters.
// Useful for tests and for exposing counts on a debug endpoint.
type InMemoryRecorder struct {
	usersCreated      atomic.Int64
	usersUpdated      atomic.Int64
	usersDeleted      atomic.Int64
	welcomeMailSent   atomic.Int64
	welcomeMailFailed atomic.Int64
}

// NewInMemory returns a Recorder backed by in-process counters.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// IncUserCreated increments the created-users counter.
func (m *InMemoryRecorder) IncUserCreated() { m.usersCreated.Add(1) }

// IncUserUpdated increments the updated-users counter.
func (m *InMemoryRecorder) IncUserUpdated() { m.usersUpdated.Add(1) }

// IncUserDeleted increments the deleted-users counter.
func (m *InMemoryRecorder) IncUserDeleted() { m.usersDeleted.Add(1) }

// IncWelcomeMailSent increments the sent-mail counter.
func (m *InMemoryRecorder) IncWelcomeMailSent() { m.welcomeMailSent.Add(1) }

// IncWelcomeMailFailed increments the failed-mail counter.
func (m *InMemoryRecorder) IncWelcomeMailFailed() { m.welcomeMailFailed.Add(1) }

// Snapshot returns the current counter values.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:      m.usersCreated.Load(),
		UsersUpdated:      m.usersUpdated.Load(),
		UsersDeleted:      m.usersDeleted.Load(),
		WelcomeMailSent:   m.welcomeMailSent.Load(),
		WelcomeMailFailed: m.welcomeMailFailed.Load(),
	}
}
