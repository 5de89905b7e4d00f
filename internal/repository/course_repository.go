package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// CourseFilter narrows a course listing.
type CourseFilter struct {
	IncludeInactive bool
	Search          string
}

// CourseRepository handles courses and their anonymous ratings.
type CourseRepository interface {
	List(ctx context.Context, f CourseFilter) ([]*model.Course, error)
	GetByID(ctx context.Context, id int) (*model.Course, error)
	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	// CreateIfMissing inserts an active course unless the name is taken.
	CreateIfMissing(ctx context.Context, name string) (bool, error)

	// Scores returns the rating sub-scores of every course that has ratings.
	Scores(ctx context.Context) (map[int][]model.Score, error)
	ScoresFor(ctx context.Context, courseID int) ([]model.Score, error)
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a PostgreSQL-backed CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

const courseColumns = `id, name, description, is_active, created_at, updated_at`

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *courseRepository) List(ctx context.Context, f CourseFilter) ([]*model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses
		 WHERE ($1 OR is_active)
		   AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		 ORDER BY name ASC`,
		f.IncludeInactive, f.Search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *courseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (r *courseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (name, description, is_active)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Description, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

func (r *courseRepository) Update(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE courses
		 SET name = $1, description = $2, is_active = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING updated_at`,
		c.Name, c.Description, c.IsActive, c.ID,
	).Scan(&c.UpdatedAt)
	return translate(err)
}

func (r *courseRepository) Delete(ctx context.Context, id int) error {
	return expectRow(r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id))
}

func (r *courseRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

func (r *courseRepository) CreateIfMissing(ctx context.Context, name string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO courses (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *courseRepository) Scores(ctx context.Context) (map[int][]model.Score, error) {
	rows, err := r.pool.Query(ctx, `SELECT course_id, effort, difficulty FROM course_ratings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[int][]model.Score)
	for rows.Next() {
		var courseID int
		var s model.Score
		if err := rows.Scan(&courseID, &s.Effort, &s.Difficulty); err != nil {
			return nil, err
		}
		scores[courseID] = append(scores[courseID], s)
	}
	return scores, rows.Err()
}

func (r *courseRepository) ScoresFor(ctx context.Context, courseID int) ([]model.Score, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT effort, difficulty FROM course_ratings WHERE course_id = $1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []model.Score
	for rows.Next() {
		var s model.Score
		if err := rows.Scan(&s.Effort, &s.Difficulty); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
