package metrics

import "testing"

func TestInMemoryRecorder(t *testing.T) {
	m := NewInMemory()

	m.IncUserCreated()
	m.IncUserCreated()
	m.IncUserUpdated()
	m.IncUserDeleted()
	m.IncWelcomeMailSent()
	m.IncWelcomeMailFailed()

	snap := m.Snapshot()
	if snap.UsersCreated != 2 {
		t.Errorf("expected 2 created, got %d", snap.UsersCreated)
	}
	if snap.UsersUpdated != 1 || snap.UsersDeleted != 1 {
		t.Errorf("unexpected update/delete counts: %+v", snap)
	}
	if snap.WelcomeMailSent != 1 || snap.WelcomeMailFailed != 1 {
		t.Errorf("unexpected mail counts: %+v", snap)
	}
}
