package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oeh-wirtschaft/oeh-backend/internal/authz"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

type SettingService struct {
	settingRepo repository.SettingRepository
	activity    *ActivityService
	log         zerolog.Logger
}

func NewSettingService(settingRepo repository.SettingRepository, activity *ActivityService, log zerolog.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		activity:    activity,
		log:         log.With().Str("component", "setting_service").Logger(),
	}
}

func (s *SettingService) GetAllSettings(ctx context.Context) ([]model.AppSetting, error) {
	settings, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}
	return settings, nil
}

func (s *SettingService) GetSettingByKey(ctx context.Context, key string) (*model.AppSetting, error) {
	setting, err := s.settingRepo.GetByKey(ctx, key)
	return setting, fromRepo(err, ErrNotFound)
}

// UpdateSetting upserts one key. Only a master may change settings.
func (s *SettingService) UpdateSetting(ctx context.Context, actor *model.Operator, key, value string) (*model.AppSetting, error) {
	if !authz.CanMutateSettings(actor) {
		return nil, ErrForbidden
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, invalidInput("Schlüssel darf nicht leer sein")
	}

	setting, err := s.settingRepo.Upsert(ctx, key, value)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to update setting")
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, model.ActionSettingsUpdate,
		fmt.Sprintf("Einstellung '%s' aktualisiert", key), nil)
	return setting, nil
}

// ContactRecipients returns the addresses in the contact_emails setting.
// A missing setting yields no recipients.
func (s *SettingService) ContactRecipients(ctx context.Context) ([]string, error) {
	setting, err := s.settingRepo.GetByKey(ctx, model.SettingContactEmails)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []string
	for _, addr := range strings.Split(setting.Value, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out, nil
}
