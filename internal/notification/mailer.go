// Package notification delivers transactional mail to users.
// Delivery is best-effort: callers must never fail their own operation
// because a mail could not be rendered or sent.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/model"
)

const welcomeSubject = "Welcome to User Management System"

// welcomeTemplate is the HTML body of the welcome mail.
// It greets the recipient by first name.
const welcomeTemplate = `<!DOCTYPE html>
<html>
  <body>
    <h2>Hi {{.FirstName}},</h2>
    <p>Welcome aboard! Your profile has been created.</p>
    <p>You can update your details at any time.</p>
    <p>&mdash; The User Management team</p>
  </body>
</html>`

// Sender dispatches assembled mail messages.
// *gomail.Dialer satisfies it; tests use a capturing fake.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Config holds SMTP settings for the mailer.
// An empty Host disables dispatch entirely.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Mailer renders and sends welcome mail over SMTP.
type Mailer struct {
	sender   Sender
	from     string
	fromName string
	tmpl     *template.Template
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewMailer creates a Mailer. When cfg.Host is empty the mailer runs in
// disabled mode: welcome mails are logged, not sent.
func NewMailer(cfg Config, logger *slog.Logger, recorder metrics.Recorder) *Mailer {
	var sender Sender
	if cfg.Host != "" {
		sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Mailer{
		sender:   sender,
		from:     cfg.From,
		fromName: cfg.FromName,
		tmpl:     template.Must(template.New("welcome").Parse(welcomeTemplate)),
		logger:   logger,
		metrics:  recorder,
	}
}

// NewMailerWithSender creates a Mailer with a custom Sender.
func NewMailerWithSender(sender Sender, from, fromName string, logger *slog.Logger, recorder metrics.Recorder) *Mailer {
	m := NewMailer(Config{From: from, FromName: fromName}, logger, recorder)
	m.sender = sender
	return m
}

// SendWelcome renders the welcome mail for a newly created user and
// dispatches it to the user's email address. The returned error is for
// observability only; callers treat dispatch as best-effort.
func (m *Mailer) SendWelcome(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if m.sender == nil {
		m.logger.Debug("mail dispatch disabled, skipping welcome mail",
			"user_id", user.ID,
		)
		return nil
	}

	body, err := m.renderWelcome(user)
	if err != nil {
		m.metrics.IncWelcomeMailFailed()
		m.logger.Error("failed to render welcome mail",
			"user_id", user.ID,
			"error", err,
		)
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", welcomeSubject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		m.metrics.IncWelcomeMailFailed()
		m.logger.Error("failed to send welcome mail",
			"user_id", user.ID,
			"error", err,
		)
		return fmt.Errorf("failed to send welcome mail: %w", err)
	}

	m.metrics.IncWelcomeMailSent()
	m.logger.Info("welcome mail sent", "user_id", user.ID)

	return nil
}

// renderWelcome produces the HTML body for the welcome mail.
func (m *Mailer) renderWelcome(user *model.User) (string, error) {
	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, user); err != nil {
		return "", fmt.Errorf("failed to render welcome template: %w", err)
	}
	return buf.String(), nil
}
