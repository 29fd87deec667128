// Package mailer renders and sends the transactional emails of the network.
package mailer

import (
	"alumnihub/backend/internal/config"
	"alumnihub/backend/internal/logging"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// Mail is a rendered message ready to send.
type Mail struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a Mail.
type Sender interface {
	Send(ctx context.Context, m Mail) error
}

// relayTimeout bounds a single relay conversation when ctx has no deadline.
const relayTimeout = 15 * time.Second

// SMTPSender delivers through an SMTP relay, upgrading with STARTTLS when offered.
type SMTPSender struct {
	cfg config.EmailConfig
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send returns as soon as ctx is done, even when the relay stops answering
// mid-conversation.
func (s *SMTPSender) Send(ctx context.Context, m Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(s.cfg.From, m)
	if err != nil {
		return err
	}

	timeout := relayTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left > 0 {
			timeout = left
		}
	}
	client, err := mail.NewClient(s.cfg.Host, s.clientOptions(timeout)...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- client.DialAndSendWithContext(ctx, msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", m.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", m.To, ctx.Err())
	}
}

func (s *SMTPSender) clientOptions(timeout time.Duration) []mail.Option {
	opts := []mail.Option{
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(timeout),
	}
	if s.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.User),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

func buildMessage(from string, m Mail) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat("Alumni Network", from); err != nil {
		return nil, fmt.Errorf("sender address %q: %w", from, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("recipient address %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)
	return msg, nil
}

// LogSender writes mails to the log instead of sending them. Used when no
// relay is configured.
type LogSender struct {
	log *logging.Logger
}

func NewLogSender(log *logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, m Mail) error {
	s.log.InfoContext(ctx, "email not sent, no relay configured", "to", m.To, "subject", m.Subject)
	return nil
}

// NewSender picks the SMTP sender when a host is configured.
func NewSender(cfg config.EmailConfig, log *logging.Logger) Sender {
	if cfg.Enabled() {
		return NewSMTPSender(cfg)
	}
	return NewLogSender(log)
}
