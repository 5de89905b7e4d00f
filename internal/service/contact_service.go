package service

import (
	"context"
	"errors"

	"github.com/oeh-wirtschaft/oeh-backend/internal/mailer"
	"github.com/oeh-wirtschaft/oeh-backend/internal/metrics"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/rs/zerolog"
)

// ContactService relays contact form submissions to the configured recipients.
type ContactService struct {
	settings *SettingService
	mail     mailer.Mailer
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewContactService creates a new ContactService.
func NewContactService(settings *SettingService, mail mailer.Mailer, m *metrics.Metrics, log zerolog.Logger) *ContactService {
	return &ContactService{
		settings: settings,
		mail:     mail,
		metrics:  m,
		log:      log.With().Str("component", "contact").Logger(),
	}
}

// Relay sends the submission to every recipient separately. Failed sends are
// logged and only reduce the reported count.
func (s *ContactService) Relay(ctx context.Context, form *model.ContactRequest) (*model.ContactResult, error) {
	recipients, err := s.settings.ContactRecipients(ctx)
	if err != nil {
		return nil, err
	}

	sent := 0
	for _, to := range recipients {
		if s.deliver(ctx, to, form) {
			sent++
		}
	}

	s.log.Info().
		Str("from", form.Email).
		Str("area", form.Area).
		Int("sent", sent).
		Int("recipients", len(recipients)).
		Msg("Contact request received")

	result := &model.ContactResult{
		Success:         true,
		Message:         "Nachricht wurde empfangen",
		EmailSent:       sent > 0,
		RecipientsCount: sent,
	}
	if sent > 0 {
		result.Message = "Nachricht erfolgreich gesendet"
	}
	return result, nil
}

func (s *ContactService) deliver(ctx context.Context, to string, form *model.ContactRequest) bool {
	msg, err := mailer.ContactMessage(to, form)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to render contact mail")
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()
	if err := s.mail.Send(sendCtx, msg); err != nil {
		if !errors.Is(err, mailer.ErrDisabled) {
			s.metrics.MailSent("contact", metrics.OutcomeFailed)
			s.log.Warn().Err(err).Str("to", to).Msg("Failed to relay contact request")
		}
		return false
	}
	s.metrics.MailSent("contact", metrics.OutcomeOK)
	return true
}
