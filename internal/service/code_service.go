package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/metrics"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

const issueAttempts = 10

// CodeService manages operator-issued multi-use codes.
type CodeService struct {
	cfg      config.CodeConfig
	codes    repository.VerificationCodeRepository
	activity *ActivityService
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewCodeService creates a new CodeService.
func NewCodeService(
	cfg config.CodeConfig,
	codes repository.VerificationCodeRepository,
	activity *ActivityService,
	m *metrics.Metrics,
	log zerolog.Logger,
) *CodeService {
	return &CodeService{
		cfg:      cfg,
		codes:    codes,
		activity: activity,
		metrics:  m,
		log:      log.With().Str("component", "codes").Logger(),
		now:      time.Now,
	}
}

func (s *CodeService) view(vc *model.VerificationCode) model.IssuedCodeView {
	return model.IssuedCodeView{
		ID:        vc.ID,
		Code:      vc.Code,
		Name:      vc.Issued.Label,
		MaxUses:   vc.Issued.MaxUses,
		UseCount:  vc.Issued.UseCount,
		IsActive:  vc.Consumable(s.now()),
		ExpiresAt: vc.ExpiresAt,
		CreatedAt: vc.CreatedAt,
	}
}

// label trims name; an empty name clears the label.
func label(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// List returns every issued code, newest first.
func (s *CodeService) List(ctx context.Context) ([]model.IssuedCodeView, error) {
	codes, err := s.codes.ListIssued(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.IssuedCodeView, 0, len(codes))
	for _, vc := range codes {
		views = append(views, s.view(vc))
	}
	return views, nil
}

// Create issues a new code with a value unused by any other code.
func (s *CodeService) Create(ctx context.Context, actor *model.Operator, req *model.CreateIssuedCodeRequest) (*model.IssuedCodeView, error) {
	maxUses := max(req.MaxUses, 1)
	days := s.cfg.IssuedDefaultDays
	if req.ExpiresInDays != nil {
		days = *req.ExpiresInDays
	}
	days = max(days, 1)
	expiresAt := s.now().AddDate(0, 0, days)

	var vc *model.VerificationCode
	for attempt := 0; attempt < issueAttempts && vc == nil; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}
		taken, err := s.codes.CodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		candidate := model.NewIssuedCode(code, label(req.Name), maxUses, expiresAt, actor.ID)
		err = s.codes.CreateIssued(ctx, candidate)
		switch {
		case err == nil:
			vc = candidate
		case errors.Is(err, repository.ErrDuplicate):
			continue
		default:
			return nil, err
		}
	}
	if vc == nil {
		return nil, fmt.Errorf("no free code value after %d attempts", issueAttempts)
	}

	s.metrics.CodeIssued()
	s.activity.Record(ctx, actor.ID, model.ActionCodeCreate,
		fmt.Sprintf("Admin-Code '%s' erstellt (max. %d Nutzungen)", vc.Code, maxUses), target("code", vc.ID))

	v := s.view(vc)
	return &v, nil
}

// Update changes the cap, expiry or label of an issued code. The cap may
// not drop below the uses already consumed.
func (s *CodeService) Update(ctx context.Context, actor *model.Operator, id int, req *model.UpdateIssuedCodeRequest) (*model.IssuedCodeView, error) {
	vc, err := s.codes.GetIssued(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	if req.MaxUses != nil {
		if *req.MaxUses < vc.Issued.UseCount {
			return nil, ErrMaxUsesBelowUseCount
		}
		vc.Issued.MaxUses = *req.MaxUses
	}
	if req.ExpiresInDays != nil {
		vc.ExpiresAt = s.now().AddDate(0, 0, max(*req.ExpiresInDays, 1))
	}
	if req.Name != nil {
		vc.Issued.Label = label(req.Name)
	}

	if err := s.codes.UpdateIssued(ctx, vc); err != nil {
		if errors.Is(err, repository.ErrCapBelowUseCount) {
			return nil, ErrMaxUsesBelowUseCount
		}
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionCodeUpdate,
		fmt.Sprintf("Admin-Code '%s' aktualisiert", vc.Code), target("code", vc.ID))

	v := s.view(vc)
	return &v, nil
}

// Delete removes an issued code.
func (s *CodeService) Delete(ctx context.Context, actor *model.Operator, id int) error {
	vc, err := s.codes.GetIssued(ctx, id)
	if err != nil {
		return fromRepo(err, ErrNotFound)
	}
	if err := s.codes.DeleteIssued(ctx, id); err != nil {
		return fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionCodeDelete,
		fmt.Sprintf("Admin-Code '%s' gelöscht", vc.Code), target("code", vc.ID))
	return nil
}
