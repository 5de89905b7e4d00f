package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridEndpoint = "/v3/mail/send"
	sendGridTimeout  = 15 * time.Second
)

type sendGridMailer struct {
	key  string
	host string
	http *rest.Client
	from *sgmail.Email
	log  zerolog.Logger
}

// NewSendGrid returns a mailer backed by the SendGrid v3 API.
func NewSendGrid(cfg config.MailConfig, log zerolog.Logger) Mailer {
	return newSendGrid(cfg, "", log)
}

// newSendGrid builds a fresh request per message; an empty host means the
// public SendGrid API.
func newSendGrid(cfg config.MailConfig, host string, log zerolog.Logger) *sendGridMailer {
	return &sendGridMailer{
		key:  cfg.SendGridAPIKey,
		host: host,
		http: &rest.Client{HTTPClient: &http.Client{Timeout: sendGridTimeout}},
		from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		log:  log,
	}
}

func (m *sendGridMailer) Enabled() bool { return true }

func (m *sendGridMailer) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}

	out := sgmail.NewV3Mail()
	out.SetFrom(m.from)
	out.Subject = msg.Subject
	out.AddPersonalizations(p)
	if msg.ReplyTo != "" {
		out.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}
	out.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		out.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return out
}

func (m *sendGridMailer) Send(ctx context.Context, msg *Message) error {
	req := sendgrid.GetRequest(m.key, sendGridEndpoint, m.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := m.http.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d: %s", res.StatusCode, res.Body)
	}

	m.log.Debug().Strs("to", msg.To).Str("subject", msg.Subject).Msg("Mail sent")
	return nil
}
