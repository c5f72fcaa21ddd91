// Package mail delivers contact form submissions to the blog owner.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"agora/domain"
)

const Subject = "Message from Philosophy Blog"

// Message is one contact form submission.
type Message struct {
	Name  string
	Email string
	Phone string
	Body  string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// To defaults to Username.
	To string
}

type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.To == "" {
		cfg.To = cfg.Username
	}
	return &SMTP{cfg: cfg}
}

// Send delivers m over an authenticated STARTTLS session. Every failure is
// wrapped in domain.ErrTransport.
func (s *SMTP) Send(ctx context.Context, m Message) error {
	msg, err := compose(s.cfg.Username, s.cfg.To, m)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	return nil
}

func compose(from, to string, m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	if err := msg.ReplyTo(m.Email); err != nil {
		return nil, fmt.Errorf("reply-to address: %w", err)
	}
	msg.Subject(Subject)
	msg.SetDate()
	msg.SetBodyString(gomail.TypeTextPlain, body(m))
	return msg, nil
}

func body(m Message) string {
	return fmt.Sprintf("%s\n\n\nFrom: %s\nEmail: %s\nPhone Number: %s", m.Body, m.Name, m.Email, m.Phone)
}

// LogSender writes submissions to the log instead of sending them. It is
// used in development when no SMTP account is configured.
type LogSender struct {
	Log zerolog.Logger
}

func (l LogSender) Send(_ context.Context, m Message) error {
	l.Log.Info().
		Str("from", m.Name).
		Str("email", m.Email).
		Str("phone", m.Phone).
		Int("length", len(m.Body)).
		Msg("contact message not sent: no SMTP account configured")
	return nil
}
