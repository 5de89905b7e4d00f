package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// ActivityRepository appends and reads the operator activity log. There is
// no delete path.
type ActivityRepository interface {
	Create(ctx context.Context, e *model.ActivityEntry) error
	ListRecent(ctx context.Context, limit int) ([]model.ActivityEntry, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a PostgreSQL-backed ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, e *model.ActivityEntry) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO activity_logs (operator_id, actor_name, action, description, target_type, target_id)
		 VALUES ($1, COALESCE((SELECT display_name FROM operators WHERE id = $1), ''), $2, $3, $4, $5)
		 RETURNING id, actor_name, created_at`,
		e.OperatorID, e.Action, e.Description, e.TargetType, e.TargetID,
	).Scan(&e.ID, &e.ActorName, &e.CreatedAt)
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]model.ActivityEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, operator_id, action, description, target_type, target_id, actor_name, created_at
		 FROM activity_logs
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.ActivityEntry{}
	for rows.Next() {
		var e model.ActivityEntry
		if err := rows.Scan(&e.ID, &e.OperatorID, &e.Action, &e.Description,
			&e.TargetType, &e.TargetID, &e.ActorName, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
