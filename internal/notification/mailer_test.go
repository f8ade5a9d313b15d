package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/model"
)

// capturingSender records messages instead of dialing SMTP.
type capturingSender struct {
	messages []*gomail.Message
	err      error
}

func (s *capturingSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, m...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() *model.User {
	return &model.User{
		ID:          "USR0001",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: model.NewDate(1815, time.December, 10),
		City:        "London",
		Email:       "ada@example.com",
		CreatedOn:   model.Today(),
	}
}

func TestMailer_SendWelcome(t *testing.T) {
	sender := &capturingSender{}
	recorder := metrics.NewInMemory()
	mailer := NewMailerWithSender(sender, "no-reply@userdir.local", "User Management", discardLogger(), recorder)

	if err := mailer.SendWelcome(context.Background(), testUser()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.messages))
	}

	msg := sender.messages[0]
	if to := msg.GetHeader("To"); len(to) != 1 || to[0] != "ada@example.com" {
		t.Errorf("unexpected recipient: %v", to)
	}
	if subject := msg.GetHeader("Subject"); len(subject) != 1 || subject[0] != "Welcome to User Management System" {
		t.Errorf("unexpected subject: %v", subject)
	}

	if got := recorder.Snapshot().WelcomeMailSent; got != 1 {
		t.Errorf("expected sent counter 1, got %d", got)
	}
}

func TestMailer_RenderWelcomeGreetsByFirstName(t *testing.T) {
	mailer := NewMailerWithSender(&capturingSender{}, "no-reply@userdir.local", "User Management", discardLogger(), nil)

	body, err := mailer.renderWelcome(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(body, "Ada") {
		t.Errorf("expected body to greet by first name, got:\n%s", body)
	}
	if !strings.Contains(body, "<html>") {
		t.Error("expected an HTML body")
	}
}

func TestMailer_SendFailureIsReported(t *testing.T) {
	sender := &capturingSender{err: errors.New("connection refused")}
	recorder := metrics.NewInMemory()
	mailer := NewMailerWithSender(sender, "no-reply@userdir.local", "User Management", discardLogger(), recorder)

	if err := mailer.SendWelcome(context.Background(), testUser()); err == nil {
		t.Fatal("expected an error from failed dispatch")
	}

	if got := recorder.Snapshot().WelcomeMailFailed; got != 1 {
		t.Errorf("expected failed counter 1, got %d", got)
	}
}

func TestMailer_DisabledWithoutHost(t *testing.T) {
	mailer := NewMailer(Config{}, discardLogger(), nil)

	if err := mailer.SendWelcome(context.Background(), testUser()); err != nil {
		t.Fatalf("disabled mailer must be a no-op, got %v", err)
	}
}

func TestMailer_CancelledContext(t *testing.T) {
	mailer := NewMailerWithSender(&capturingSender{}, "no-reply@userdir.local", "User Management", discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := mailer.SendWelcome(ctx, testUser()); err == nil {
		t.Fatal("expected context error")
	}
}
