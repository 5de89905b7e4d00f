package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// EventRepository handles calendar events.
type EventRepository interface {
	List(ctx context.Context, f model.EventFilter) ([]*model.CalendarEvent, error)
	GetByID(ctx context.Context, id int) (*model.CalendarEvent, error)
	Create(ctx context.Context, e *model.CalendarEvent) error
	Update(ctx context.Context, e *model.CalendarEvent) error
	Delete(ctx context.Context, id int) error
	// TagLists returns the raw comma-separated tag strings of public events.
	TagLists(ctx context.Context) ([]string, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a PostgreSQL-backed EventRepository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventSelect = `SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.all_day, e.location,
	e.color, e.tags, e.is_public, e.created_by, COALESCE(o.display_name, ''), e.created_at, e.updated_at
	FROM calendar_events e LEFT JOIN operators o ON o.id = e.created_by`

func scanEvent(row pgx.Row) (*model.CalendarEvent, error) {
	e := &model.CalendarEvent{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.AllDay, &e.Location,
		&e.Color, &e.Tags, &e.IsPublic, &e.CreatedBy, &e.CreatorName, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, f model.EventFilter) ([]*model.CalendarEvent, error) {
	rows, err := r.pool.Query(ctx,
		eventSelect+`
		 WHERE ($1 OR e.is_public)
		   AND ($2 = 0 OR EXTRACT(MONTH FROM e.start_date) = $2)
		   AND ($3 = 0 OR EXTRACT(YEAR FROM e.start_date) = $3)
		   AND ($4 = '' OR e.tags ILIKE '%' || $4 || '%')
		   AND ($5 = '' OR e.title ILIKE '%' || $5 || '%' OR e.description ILIKE '%' || $5 || '%')
		 ORDER BY e.start_date ASC`,
		f.IncludeHidden, f.Month, f.Year, f.Tag, f.Search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) GetByID(ctx context.Context, id int) (*model.CalendarEvent, error) {
	return scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id))
}

func (r *eventRepository) Create(ctx context.Context, e *model.CalendarEvent) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO calendar_events (title, description, start_date, end_date, all_day, location, color, tags, is_public, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.Description, e.StartDate, e.EndDate, e.AllDay, e.Location, e.Color, e.Tags, e.IsPublic, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt))
}

func (r *eventRepository) Update(ctx context.Context, e *model.CalendarEvent) error {
	return translate(r.pool.QueryRow(ctx,
		`UPDATE calendar_events
		 SET title = $1, description = $2, start_date = $3, end_date = $4, all_day = $5,
		     location = $6, color = $7, tags = $8, is_public = $9, updated_at = NOW()
		 WHERE id = $10
		 RETURNING updated_at`,
		e.Title, e.Description, e.StartDate, e.EndDate, e.AllDay, e.Location, e.Color, e.Tags, e.IsPublic, e.ID,
	).Scan(&e.UpdatedAt))
}

func (r *eventRepository) Delete(ctx context.Context, id int) error {
	return expectRow(r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id))
}

func (r *eventRepository) TagLists(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tags FROM calendar_events WHERE is_public AND tags IS NOT NULL AND tags <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		lists = append(lists, s)
	}
	return lists, rows.Err()
}
