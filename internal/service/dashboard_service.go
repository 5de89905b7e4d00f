package service

import (
	"context"

	"github.com/oeh-wirtschaft/oeh-backend/internal/authz"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
)

const dashboardActivityLimit = 10

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	repo      repository.DashboardRepository
	operators repository.OperatorRepository
	activity  *ActivityService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo repository.DashboardRepository, operators repository.OperatorRepository, activity *ActivityService) *DashboardService {
	return &DashboardService{repo: repo, operators: operators, activity: activity}
}

// GetDashboardData collects the news, operator and activity counters.
// Only active admins and masters may read them.
func (s *DashboardService) GetDashboardData(ctx context.Context, actor *model.Operator) (*model.DashboardStats, error) {
	if !authz.CanReadDashboard(actor) {
		return nil, ErrForbidden
	}

	news, err := s.repo.GetNewsCounts(ctx)
	if err != nil {
		return nil, err
	}

	byPriority, err := s.repo.GetNewsPriorityCounts(ctx)
	if err != nil {
		return nil, err
	}

	total, active, err := s.operators.Counts(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.activity.Recent(ctx, dashboardActivityLimit)
	if err != nil {
		return nil, err
	}

	return &model.DashboardStats{
		TotalNews:      news.Total,
		PublishedNews:  news.Published,
		DraftNews:      news.Total - news.Published,
		TotalViews:     news.Views,
		TotalAdmins:    total,
		ActiveAdmins:   active,
		NewsByPriority: byPriority,
		RecentActivity: recent,
	}, nil
}
