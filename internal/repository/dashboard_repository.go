package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// NewsCounts are the news totals shown on the dashboard.
type NewsCounts struct {
	Total     int
	Published int
	Views     int
}

// DashboardRepository handles admin dashboard aggregates.
type DashboardRepository interface {
	GetNewsCounts(ctx context.Context) (NewsCounts, error)
	GetNewsPriorityCounts(ctx context.Context) (map[model.NewsPriority]int, error)
}

type dashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a PostgreSQL-backed DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) DashboardRepository {
	return &dashboardRepository{pool: pool}
}

// GetNewsCounts retrieves the high-level news metrics.
func (r *dashboardRepository) GetNewsCounts(ctx context.Context) (NewsCounts, error) {
	var c NewsCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_published),
			COALESCE(SUM(views), 0)
		 FROM news`,
	).Scan(&c.Total, &c.Published, &c.Views)
	return c, err
}

// GetNewsPriorityCounts retrieves the distribution of news by priority.
func (r *dashboardRepository) GetNewsPriorityCounts(ctx context.Context) (map[model.NewsPriority]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT priority, COUNT(*) FROM news GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.NewsPriority]int, len(model.AllNewsPriorities))
	for _, p := range model.AllNewsPriorities {
		counts[p] = 0
	}
	for rows.Next() {
		var priority model.NewsPriority
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		counts[priority] = count
	}
	return counts, rows.Err()
}
