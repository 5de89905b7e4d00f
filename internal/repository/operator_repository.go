package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// OperatorRepository handles operator data access.
type OperatorRepository interface {
	GetByID(ctx context.Context, id int) (*model.Operator, error)
	GetByUsername(ctx context.Context, username string) (*model.Operator, error)
	// GetByLogin matches either the username or the email address.
	GetByLogin(ctx context.Context, login string) (*model.Operator, error)
	GetMaster(ctx context.Context) (*model.Operator, error)
	List(ctx context.Context) ([]*model.Operator, error)
	Create(ctx context.Context, op *model.Operator) error
	// Update persists username, email, display name, role, active flag and password hash.
	Update(ctx context.Context, op *model.Operator) error
	UpdatePassword(ctx context.Context, id int, hash string) error
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
	Delete(ctx context.Context, id int) error
	Counts(ctx context.Context) (total, active int, err error)
}

type operatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository creates a PostgreSQL-backed OperatorRepository.
func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

const operatorColumns = `id, username, email, password_hash, display_name, role, is_active, is_master, created_at, updated_at, last_login_at`

func scanOperator(row pgx.Row) (*model.Operator, error) {
	op := &model.Operator{}
	err := row.Scan(&op.ID, &op.Username, &op.Email, &op.PasswordHash, &op.DisplayName,
		&op.Role, &op.IsActive, &op.IsMaster, &op.CreatedAt, &op.UpdatedAt, &op.LastLoginAt)
	if err != nil {
		return nil, translate(err)
	}
	return op, nil
}

func (r *operatorRepository) GetByID(ctx context.Context, id int) (*model.Operator, error) {
	return scanOperator(r.pool.QueryRow(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE id = $1`, id))
}

func (r *operatorRepository) GetByUsername(ctx context.Context, username string) (*model.Operator, error) {
	return scanOperator(r.pool.QueryRow(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE username = $1`, username))
}

func (r *operatorRepository) GetByLogin(ctx context.Context, login string) (*model.Operator, error) {
	return scanOperator(r.pool.QueryRow(ctx,
		`SELECT `+operatorColumns+` FROM operators
		 WHERE username = $1 OR LOWER(email) = LOWER($1)
		 ORDER BY (username = $1) DESC LIMIT 1`, login))
}

func (r *operatorRepository) GetMaster(ctx context.Context) (*model.Operator, error) {
	return scanOperator(r.pool.QueryRow(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE is_master LIMIT 1`))
}

func (r *operatorRepository) List(ctx context.Context) ([]*model.Operator, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+operatorColumns+` FROM operators ORDER BY is_master DESC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []*model.Operator
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func (r *operatorRepository) Create(ctx context.Context, op *model.Operator) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO operators (username, email, password_hash, display_name, role, is_active, is_master)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		op.Username, op.Email, op.PasswordHash, op.DisplayName, op.Role, op.IsActive, op.IsMaster,
	).Scan(&op.ID, &op.CreatedAt, &op.UpdatedAt)
	return translate(err)
}

func (r *operatorRepository) Update(ctx context.Context, op *model.Operator) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE operators
		 SET username = $1, email = $2, display_name = $3, role = $4, is_active = $5,
		     password_hash = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING updated_at`,
		op.Username, op.Email, op.DisplayName, op.Role, op.IsActive, op.PasswordHash, op.ID,
	).Scan(&op.UpdatedAt)
	return translate(err)
}

func (r *operatorRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	return expectRow(r.pool.Exec(ctx,
		`UPDATE operators SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id))
}

func (r *operatorRepository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	return expectRow(r.pool.Exec(ctx,
		`UPDATE operators SET last_login_at = $1 WHERE id = $2`, at, id))
}

func (r *operatorRepository) Delete(ctx context.Context, id int) error {
	return expectRow(r.pool.Exec(ctx, `DELETE FROM operators WHERE id = $1`, id))
}

func (r *operatorRepository) Counts(ctx context.Context) (total, active int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM operators`,
	).Scan(&total, &active)
	return
}
