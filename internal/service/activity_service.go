package service

import (
	"context"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// ActivityService writes and reads the operator audit log.
type ActivityService struct {
	repo        repository.ActivityRepository
	broadcaster repository.ActivityBroadcaster
	log         zerolog.Logger
}

// NewActivityService creates a new ActivityService. broadcaster may be nil.
func NewActivityService(repo repository.ActivityRepository, broadcaster repository.ActivityBroadcaster, log zerolog.Logger) *ActivityService {
	return &ActivityService{
		repo:        repo,
		broadcaster: broadcaster,
		log:         log.With().Str("component", "activity").Logger(),
	}
}

// Target identifies the record an activity entry refers to.
type Target struct {
	Type string
	ID   int
}

// Record appends an entry and publishes it to live subscribers.
// Failures are logged and never surface to the caller.
func (s *ActivityService) Record(ctx context.Context, operatorID int, action model.ActivityAction, description string, target *Target) {
	entry := &model.ActivityEntry{
		OperatorID:  &operatorID,
		Action:      action,
		Description: description,
	}
	if target != nil {
		entry.TargetType = &target.Type
		entry.TargetID = &target.ID
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Int("operator_id", operatorID).
			Str("action", string(action)).
			Msg("Failed to write activity entry")
		return
	}

	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Publish(ctx, entry); err != nil {
		s.log.Warn().Err(err).Int("entry_id", entry.ID).Msg("Failed to publish activity entry")
	}
}

// Recent returns the newest entries. limit is clamped to 1..500; zero means 50.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]model.ActivityEntry, error) {
	return s.repo.ListRecent(ctx, clampActivityLimit(limit))
}

func clampActivityLimit(limit int) int {
	switch {
	case limit == 0:
		return defaultActivityLimit
	case limit < 1:
		return 1
	case limit > maxActivityLimit:
		return maxActivityLimit
	}
	return limit
}

func target(kind string, id int) *Target {
	return &Target{Type: kind, ID: id}
}
