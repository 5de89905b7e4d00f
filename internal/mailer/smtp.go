package mailer

import (
	"context"
	"fmt"

	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

type smtpMailer struct {
	cfg config.MailConfig
	log zerolog.Logger
}

// NewSMTP returns a mailer that delivers through an authenticated SMTP relay.
// Port 465 uses implicit TLS; other ports upgrade with STARTTLS when UseTLS is set.
func NewSMTP(cfg config.MailConfig, log zerolog.Logger) Mailer {
	return &smtpMailer{cfg: cfg, log: log}
}

func (m *smtpMailer) Enabled() bool { return true }

func (m *smtpMailer) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTimeout(m.cfg.Timeout),
	}
	switch {
	case m.cfg.Port == 465:
		opts = append(opts, mail.WithSSL())
	case m.cfg.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

func (m *smtpMailer) Send(ctx context.Context, msg *Message) error {
	out := mail.NewMsg()
	if err := out.FromFormat(m.cfg.FromName, m.cfg.FromEmail); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyTo(msg.ReplyTo); err != nil {
			return fmt.Errorf("set reply-to: %w", err)
		}
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	client, err := m.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.log.Debug().Strs("to", msg.To).Str("subject", msg.Subject).Msg("Mail sent")
	return nil
}
