package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// StudyRepository handles study categories, programs and curriculum updates.
type StudyRepository interface {
	ListCategories(ctx context.Context) ([]*model.StudyCategory, error)
	GetCategory(ctx context.Context, id int) (*model.StudyCategory, error)
	CreateCategory(ctx context.Context, c *model.StudyCategory) error
	UpdateCategory(ctx context.Context, c *model.StudyCategory) error
	DeleteCategory(ctx context.Context, id int) error
	CountCategories(ctx context.Context) (int, error)

	// ListPrograms filters by category when categoryID > 0.
	ListPrograms(ctx context.Context, categoryID int, activeOnly bool) ([]*model.StudyProgram, error)
	GetProgram(ctx context.Context, id int) (*model.StudyProgram, error)
	CreateProgram(ctx context.Context, p *model.StudyProgram) error
	UpdateProgram(ctx context.Context, p *model.StudyProgram) error
	DeleteProgram(ctx context.Context, id int) error

	// ListUpdates filters by program when programID > 0.
	ListUpdates(ctx context.Context, programID int, activeOnly bool) ([]*model.StudyUpdate, error)
	GetUpdate(ctx context.Context, id int) (*model.StudyUpdate, error)
	CreateUpdate(ctx context.Context, u *model.StudyUpdate) error
	UpdateUpdate(ctx context.Context, u *model.StudyUpdate) error
	DeleteUpdate(ctx context.Context, id int) error
}

type studyRepository struct {
	pool *pgxpool.Pool
}

// NewStudyRepository creates a PostgreSQL-backed StudyRepository.
func NewStudyRepository(pool *pgxpool.Pool) StudyRepository {
	return &studyRepository{pool: pool}
}

// ─── Categories ──────────────────────────────────────────────────────

const categoryColumns = `id, name, display_name, description, color, sort_order, created_at`

func scanCategory(row pgx.Row) (*model.StudyCategory, error) {
	c := &model.StudyCategory{}
	if err := row.Scan(&c.ID, &c.Name, &c.DisplayName, &c.Description, &c.Color, &c.SortOrder, &c.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *studyRepository) ListCategories(ctx context.Context) ([]*model.StudyCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM study_categories ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []*model.StudyCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *studyRepository) GetCategory(ctx context.Context, id int) (*model.StudyCategory, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM study_categories WHERE id = $1`, id))
}

func (r *studyRepository) CreateCategory(ctx context.Context, c *model.StudyCategory) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO study_categories (name, display_name, description, color, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.Name, c.DisplayName, c.Description, c.Color, c.SortOrder,
	).Scan(&c.ID, &c.CreatedAt))
}

func (r *studyRepository) UpdateCategory(ctx context.Context, c *model.StudyCategory) error {
	return expectRow(r.pool.Exec(ctx,
		`UPDATE study_categories
		 SET name = $1, display_name = $2, description = $3, color = $4, sort_order = $5
		 WHERE id = $6`,
		c.Name, c.DisplayName, c.Description, c.Color, c.SortOrder, c.ID))
}

func (r *studyRepository) DeleteCategory(ctx context.Context, id int) error {
	return expectRow(r.pool.Exec(ctx, `DELETE FROM study_categories WHERE id = $1`, id))
}

func (r *studyRepository) CountCategories(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM study_categories`).Scan(&n)
	return n, err
}

// ─── Programs ────────────────────────────────────────────────────────

const programSelect = `SELECT p.id, p.category_id, c.display_name, p.name, p.short_name, p.description,
	p.sort_order, p.is_active, p.created_at
	FROM study_programs p JOIN study_categories c ON c.id = p.category_id`

func scanProgram(row pgx.Row) (*model.StudyProgram, error) {
	p := &model.StudyProgram{}
	err := row.Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.ShortName, &p.Description,
		&p.SortOrder, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *studyRepository) ListPrograms(ctx context.Context, categoryID int, activeOnly bool) ([]*model.StudyProgram, error) {
	rows, err := r.pool.Query(ctx,
		programSelect+`
		 WHERE ($1 = 0 OR p.category_id = $1) AND (NOT $2 OR p.is_active)
		 ORDER BY p.sort_order ASC, p.name ASC`,
		categoryID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []*model.StudyProgram
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

func (r *studyRepository) GetProgram(ctx context.Context, id int) (*model.StudyProgram, error) {
	return scanProgram(r.pool.QueryRow(ctx, programSelect+` WHERE p.id = $1`, id))
}

func (r *studyRepository) CreateProgram(ctx context.Context, p *model.StudyProgram) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO study_programs (category_id, name, short_name, description, sort_order, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		p.CategoryID, p.Name, p.ShortName, p.Description, p.SortOrder, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt))
}

func (r *studyRepository) UpdateProgram(ctx context.Context, p *model.StudyProgram) error {
	return expectRow(r.pool.Exec(ctx,
		`UPDATE study_programs
		 SET category_id = $1, name = $2, short_name = $3, description = $4, sort_order = $5, is_active = $6
		 WHERE id = $7`,
		p.CategoryID, p.Name, p.ShortName, p.Description, p.SortOrder, p.IsActive, p.ID))
}

func (r *studyRepository) DeleteProgram(ctx context.Context, id int) error {
	return expectRow(r.pool.Exec(ctx, `DELETE FROM study_programs WHERE id = $1`, id))
}

// ─── Updates ─────────────────────────────────────────────────────────

const updateSelect = `SELECT u.id, u.program_id, p.name, c.display_name, u.content, u.semester,
	u.is_active, u.sort_order, u.created_by, u.created_at, u.updated_at
	FROM study_updates u
	JOIN study_programs p ON p.id = u.program_id
	JOIN study_categories c ON c.id = p.category_id`

func scanUpdate(row pgx.Row) (*model.StudyUpdate, error) {
	u := &model.StudyUpdate{}
	err := row.Scan(&u.ID, &u.ProgramID, &u.ProgramName, &u.CategoryName, &u.Content, &u.Semester,
		&u.IsActive, &u.SortOrder, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *studyRepository) ListUpdates(ctx context.Context, programID int, activeOnly bool) ([]*model.StudyUpdate, error) {
	rows, err := r.pool.Query(ctx,
		updateSelect+`
		 WHERE ($1 = 0 OR u.program_id = $1) AND (NOT $2 OR (u.is_active AND p.is_active))
		 ORDER BY p.name ASC, u.sort_order ASC, u.created_at DESC`,
		programID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []*model.StudyUpdate
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

func (r *studyRepository) GetUpdate(ctx context.Context, id int) (*model.StudyUpdate, error) {
	return scanUpdate(r.pool.QueryRow(ctx, updateSelect+` WHERE u.id = $1`, id))
}

func (r *studyRepository) CreateUpdate(ctx context.Context, u *model.StudyUpdate) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO study_updates (program_id, content, semester, is_active, sort_order, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		u.ProgramID, u.Content, u.Semester, u.IsActive, u.SortOrder, u.CreatedBy,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *studyRepository) UpdateUpdate(ctx context.Context, u *model.StudyUpdate) error {
	return translate(r.pool.QueryRow(ctx,
		`UPDATE study_updates
		 SET program_id = $1, content = $2, semester = $3, is_active = $4, sort_order = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING updated_at`,
		u.ProgramID, u.Content, u.Semester, u.IsActive, u.SortOrder, u.ID,
	).Scan(&u.UpdatedAt))
}

func (r *studyRepository) DeleteUpdate(ctx context.Context, id int) error {
	return expectRow(r.pool.Exec(ctx, `DELETE FROM study_updates WHERE id = $1`, id))
}
