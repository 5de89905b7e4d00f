// Package mailer delivers outbound email through SMTP or SendGrid.
package mailer

import (
	"context"
	"errors"

	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/rs/zerolog"
)

// ErrDisabled is returned by the disabled mailer when asked to send.
var ErrDisabled = errors.New("mailer disabled")

// Message is a rendered outbound email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends messages over one configured channel.
type Mailer interface {
	// Enabled reports whether a real channel is configured.
	Enabled() bool
	Send(ctx context.Context, msg *Message) error
}

// New returns the mailer selected by cfg.Driver. An incomplete configuration
// yields the disabled mailer.
func New(cfg config.MailConfig, log zerolog.Logger) Mailer {
	log = log.With().Str("component", "mailer").Str("driver", cfg.Driver).Logger()
	if !cfg.Enabled() {
		log.Warn().Msg("Outbound mail disabled; codes and contact messages will only be logged")
		return NewDisabled(log)
	}
	switch cfg.Driver {
	case config.MailDriverSendGrid:
		return NewSendGrid(cfg, log)
	default:
		return NewSMTP(cfg, log)
	}
}

type disabled struct {
	log zerolog.Logger
}

// NewDisabled returns a mailer that logs and drops every message.
func NewDisabled(log zerolog.Logger) Mailer {
	return &disabled{log: log}
}

func (d *disabled) Enabled() bool { return false }

func (d *disabled) Send(_ context.Context, msg *Message) error {
	d.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Msg("Mail not sent: no outbound channel configured")
	return ErrDisabled
}
