package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/mailer"
	"github.com/oeh-wirtschaft/oeh-backend/internal/metrics"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

const (
	msgCodeSent     = "Code wurde gesendet! Überprüfe dein E-Mail-Postfach."
	msgCodeValid    = "Code ist gültig"
	msgRatingStored = "Bewertung erfolgreich abgegeben! Vielen Dank für dein Feedback."

	// replaceAttempts bounds retries when a concurrent request for the same
	// (email, course) wins the live-code slot first.
	replaceAttempts = 3
	mailTimeout     = 10 * time.Second
)

// VerificationService issues personal codes and consumes codes for ratings.
type VerificationService struct {
	cfg      config.CodeConfig
	courses  repository.CourseRepository
	codes    repository.VerificationCodeRepository
	throttle repository.RequestThrottle
	mail     mailer.Mailer
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewVerificationService creates a new VerificationService. throttle and m may be nil.
func NewVerificationService(
	cfg config.CodeConfig,
	courses repository.CourseRepository,
	codes repository.VerificationCodeRepository,
	throttle repository.RequestThrottle,
	mail mailer.Mailer,
	m *metrics.Metrics,
	log zerolog.Logger,
) *VerificationService {
	return &VerificationService{
		cfg:      cfg,
		courses:  courses,
		codes:    codes,
		throttle: throttle,
		mail:     mail,
		metrics:  m,
		log:      log.With().Str("component", "verification").Logger(),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// domainAllowed reports whether email ends with one of the configured suffixes.
func (s *VerificationService) domainAllowed(email string) bool {
	for _, suffix := range s.cfg.AllowedEmailDomains {
		if strings.HasSuffix(email, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

// RequestCode issues a fresh personal code for (email, courseID) and mails it.
// Earlier unused codes for the pair stop working.
func (s *VerificationService) RequestCode(ctx context.Context, email string, courseID int) (*model.RequestCodeResult, error) {
	email = normalizeEmail(email)
	if !s.domainAllowed(email) {
		s.metrics.CodeRequested(metrics.OutcomeRejected)
		return nil, &EmailDomainError{Allowed: s.cfg.AllowedEmailDomains}
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fromRepo(err, ErrCourseNotFound)
	}
	if !course.IsActive {
		return nil, ErrCourseNotFound
	}

	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, config.CacheKey.CodeRequestKey(email), s.cfg.RequestLimit, s.cfg.RequestWindow)
		if err != nil {
			// Fail open when the throttle store is unavailable.
			s.log.Warn().Err(err).Msg("Code request throttle unavailable")
		} else if !ok {
			s.metrics.CodeRequested(metrics.OutcomeThrottled)
			return nil, ErrRateLimited
		}
	}

	vc, err := s.storePersonal(ctx, email, course.ID)
	if err != nil {
		return nil, err
	}

	if err := s.send(ctx, email, vc.Code, course.Name); err != nil {
		s.metrics.CodeRequested(metrics.OutcomeFailed)
		return nil, err
	}

	s.metrics.CodeRequested(metrics.OutcomeOK)
	return &model.RequestCodeResult{
		Success:          true,
		Message:          msgCodeSent,
		ExpiresInMinutes: int(s.cfg.TTL / time.Minute),
	}, nil
}

func (s *VerificationService) storePersonal(ctx context.Context, email string, courseID int) (*model.VerificationCode, error) {
	var lastErr error
	for attempt := 0; attempt < replaceAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}
		vc := model.NewPersonalCode(code, email, courseID, s.now().Add(s.cfg.TTL))
		err = s.codes.ReplacePersonal(ctx, vc)
		if err == nil {
			return vc, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fromRepo(err, ErrCourseNotFound)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("store personal code: %w", lastErr)
}

// send mails the code. A disabled mailer only logs; a configured one that
// fails is a delivery error.
func (s *VerificationService) send(ctx context.Context, email, code, courseName string) error {
	msg, err := mailer.CodeMessage(email, mailer.CodeData{
		Code:         code,
		CourseName:   courseName,
		ValidMinutes: int(s.cfg.TTL / time.Minute),
	})
	if err != nil {
		return fmt.Errorf("render code mail: %w", err)
	}

	if !s.mail.Enabled() {
		s.log.Info().Str("email", email).Str("code", code).Msg("Mail disabled, verification code not delivered")
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()
	if err := s.mail.Send(sendCtx, msg); err != nil {
		s.metrics.MailSent("code", metrics.OutcomeFailed)
		s.log.Error().Err(err).Str("email", email).Msg("Failed to send verification code")
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	s.metrics.MailSent("code", metrics.OutcomeOK)
	return nil
}

// lookup runs the two-tier match: a personal code when an email is given,
// then an issued code by value alone. The returned code is not yet checked
// for expiry or remaining uses.
func (s *VerificationService) lookup(ctx context.Context, email *string, code string, courseID int) (*model.VerificationCode, error) {
	if email != nil && strings.TrimSpace(*email) != "" {
		vc, err := s.codes.FindPersonal(ctx, normalizeEmail(*email), code, courseID)
		if err == nil {
			return vc, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	vc, err := s.codes.FindIssued(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCodeInvalid
		}
		return nil, err
	}
	return vc, nil
}

// usable checks expiry and remaining uses of a matched code.
func usable(vc *model.VerificationCode, now time.Time) error {
	if vc.Issued != nil && vc.Exhausted() {
		return ErrCodeExhausted
	}
	if vc.Expired(now) {
		return ErrCodeExpired
	}
	return nil
}

// VerifyCode checks a code without consuming it.
func (s *VerificationService) VerifyCode(ctx context.Context, req *model.VerifyCodeRequest) (*model.VerifyCodeResult, error) {
	vc, err := s.lookup(ctx, req.Email, normalizeCode(req.Code), req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := usable(vc, s.now()); err != nil {
		return nil, err
	}
	return &model.VerifyCodeResult{
		Valid:       true,
		IsAdminCode: vc.Kind() == model.CodeKindIssued,
		Message:     msgCodeValid,
	}, nil
}

// SubmitRating consumes one use of a code and stores the rating atomically.
func (s *VerificationService) SubmitRating(ctx context.Context, req *model.SubmitRatingRequest) (*model.SubmitRatingResult, error) {
	if !inRange(req.Effort) || !inRange(req.Difficulty) {
		return nil, ErrRatingOutOfRange
	}

	vc, err := s.lookup(ctx, req.Email, normalizeCode(req.Code), req.CourseID)
	if err != nil {
		if errors.Is(err, ErrCodeInvalid) {
			return nil, ErrCodeConsumed
		}
		return nil, err
	}
	now := s.now()
	if err := usable(vc, now); err != nil {
		return nil, err
	}

	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		return nil, fromRepo(err, ErrCourseNotFound)
	}

	rating := &model.Rating{
		CourseID:   req.CourseID,
		Effort:     req.Effort,
		Difficulty: req.Difficulty,
	}
	if err := s.codes.ConsumeAndRate(ctx, vc, rating, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotConsumable):
			if vc.Kind() == model.CodeKindIssued {
				return nil, ErrCodeExhausted
			}
			return nil, ErrCodeConsumed
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("consume code: %w", err)
	}

	s.metrics.RatingSubmitted(string(vc.Kind()))
	return &model.SubmitRatingResult{Success: true, Message: msgRatingStored}, nil
}

func inRange(score int) bool {
	return score >= 1 && score <= 5
}
