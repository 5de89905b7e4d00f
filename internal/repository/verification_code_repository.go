package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// VerificationCodeRepository stores personal and issued verification codes.
type VerificationCodeRepository interface {
	// ReplacePersonal supersedes every unused personal code for the same
	// (email, course) and inserts code, atomically.
	ReplacePersonal(ctx context.Context, code *model.VerificationCode) error
	// FindPersonal returns the unused personal code matching all three keys.
	FindPersonal(ctx context.Context, email, code string, courseID int) (*model.VerificationCode, error)
	// FindIssued returns the issued code with the given value.
	FindIssued(ctx context.Context, code string) (*model.VerificationCode, error)
	// ConsumeAndRate consumes one use of code and stores rating in the same
	// transaction. ErrNotConsumable means the code lost its last use or
	// expired after it was read.
	ConsumeAndRate(ctx context.Context, code *model.VerificationCode, rating *model.Rating, now time.Time) error

	ListIssued(ctx context.Context) ([]*model.VerificationCode, error)
	GetIssued(ctx context.Context, id int) (*model.VerificationCode, error)
	CreateIssued(ctx context.Context, code *model.VerificationCode) error
	// UpdateIssued writes label, max_uses and expiry, recomputing used from
	// the stored use_count. ErrCapBelowUseCount means max_uses would drop
	// below the consumed uses; code.Issued is refreshed on success.
	UpdateIssued(ctx context.Context, code *model.VerificationCode) error
	DeleteIssued(ctx context.Context, id int) error
	// CodeExists reports whether any code of either kind uses value.
	CodeExists(ctx context.Context, value string) (bool, error)
	// PurgePersonal deletes personal codes that expired before cutoff.
	PurgePersonal(ctx context.Context, cutoff time.Time) (int64, error)
}

type verificationCodeRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationCodeRepository creates a PostgreSQL-backed VerificationCodeRepository.
func NewVerificationCodeRepository(pool *pgxpool.Pool) VerificationCodeRepository {
	return &verificationCodeRepository{pool: pool}
}

const personalColumns = `id, code, expires_at, created_at, email, course_id, used`
const issuedColumns = `id, code, expires_at, created_at, label, max_uses, use_count, used, created_by`

func scanPersonal(row pgx.Row) (*model.VerificationCode, error) {
	vc := &model.VerificationCode{Personal: &model.PersonalCode{}}
	err := row.Scan(&vc.ID, &vc.Code, &vc.ExpiresAt, &vc.CreatedAt,
		&vc.Personal.Email, &vc.Personal.CourseID, &vc.Personal.Used)
	if err != nil {
		return nil, translate(err)
	}
	return vc, nil
}

func scanIssued(row pgx.Row) (*model.VerificationCode, error) {
	vc := &model.VerificationCode{Issued: &model.IssuedCode{}}
	err := row.Scan(&vc.ID, &vc.Code, &vc.ExpiresAt, &vc.CreatedAt,
		&vc.Issued.Label, &vc.Issued.MaxUses, &vc.Issued.UseCount, &vc.Issued.Used, &vc.Issued.CreatedBy)
	if err != nil {
		return nil, translate(err)
	}
	return vc, nil
}

func (r *verificationCodeRepository) ReplacePersonal(ctx context.Context, code *model.VerificationCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	p := code.Personal
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE verification_codes SET used = TRUE
			 WHERE kind = 'personal' AND email = $1 AND course_id = $2 AND NOT used`,
			p.Email, p.CourseID); err != nil {
			return err
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO verification_codes (kind, code, email, course_id, expires_at)
			 VALUES ('personal', $1, $2, $3, $4)
			 RETURNING id, created_at`,
			code.Code, p.Email, p.CourseID, code.ExpiresAt,
		).Scan(&code.ID, &code.CreatedAt)
		return translate(err)
	})
}

func (r *verificationCodeRepository) FindPersonal(ctx context.Context, email, code string, courseID int) (*model.VerificationCode, error) {
	return scanPersonal(r.pool.QueryRow(ctx,
		`SELECT `+personalColumns+` FROM verification_codes
		 WHERE kind = 'personal' AND email = $1 AND code = $2 AND course_id = $3 AND NOT used
		 ORDER BY created_at DESC LIMIT 1`,
		email, code, courseID))
}

func (r *verificationCodeRepository) FindIssued(ctx context.Context, code string) (*model.VerificationCode, error) {
	return scanIssued(r.pool.QueryRow(ctx,
		`SELECT `+issuedColumns+` FROM verification_codes WHERE kind = 'issued' AND code = $1`, code))
}

func (r *verificationCodeRepository) ConsumeAndRate(ctx context.Context, code *model.VerificationCode, rating *model.Rating, now time.Time) error {
	if err := code.Validate(); err != nil {
		return err
	}
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var consume string
		if code.Issued != nil {
			consume = `UPDATE verification_codes
			 SET use_count = use_count + 1, used = (use_count + 1 >= max_uses)
			 WHERE id = $1 AND kind = 'issued' AND use_count < max_uses AND expires_at > $2`
		} else {
			consume = `UPDATE verification_codes
			 SET used = TRUE
			 WHERE id = $1 AND kind = 'personal' AND NOT used AND expires_at > $2`
		}
		tag, err := tx.Exec(ctx, consume, code.ID, now)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotConsumable
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO course_ratings (course_id, effort, difficulty)
			 VALUES ($1, $2, $3)
			 RETURNING id, created_at`,
			rating.CourseID, rating.Effort, rating.Difficulty,
		).Scan(&rating.ID, &rating.CreatedAt)
		return translate(err)
	})
}

func (r *verificationCodeRepository) ListIssued(ctx context.Context) ([]*model.VerificationCode, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+issuedColumns+` FROM verification_codes WHERE kind = 'issued' ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []*model.VerificationCode
	for rows.Next() {
		vc, err := scanIssued(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, vc)
	}
	return codes, rows.Err()
}

func (r *verificationCodeRepository) GetIssued(ctx context.Context, id int) (*model.VerificationCode, error) {
	return scanIssued(r.pool.QueryRow(ctx,
		`SELECT `+issuedColumns+` FROM verification_codes WHERE kind = 'issued' AND id = $1`, id))
}

func (r *verificationCodeRepository) CreateIssued(ctx context.Context, code *model.VerificationCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	i := code.Issued
	err := r.pool.QueryRow(ctx,
		`INSERT INTO verification_codes (kind, code, label, max_uses, use_count, used, created_by, expires_at)
		 VALUES ('issued', $1, $2, $3, 0, FALSE, $4, $5)
		 RETURNING id, created_at`,
		code.Code, i.Label, i.MaxUses, i.CreatedBy, code.ExpiresAt,
	).Scan(&code.ID, &code.CreatedAt)
	return translate(err)
}

func (r *verificationCodeRepository) UpdateIssued(ctx context.Context, code *model.VerificationCode) error {
	i := code.Issued
	err := r.pool.QueryRow(ctx,
		`UPDATE verification_codes
		 SET label = $1, max_uses = $2, used = use_count >= $2, expires_at = $3
		 WHERE id = $4 AND kind = 'issued' AND use_count <= $2
		 RETURNING use_count, used`,
		i.Label, i.MaxUses, code.ExpiresAt, code.ID,
	).Scan(&i.UseCount, &i.Used)
	if !errors.Is(err, pgx.ErrNoRows) {
		return translate(err)
	}

	// Either the code is gone or a consume raised use_count past the cap.
	if _, err := r.GetIssued(ctx, code.ID); err != nil {
		return err
	}
	return ErrCapBelowUseCount
}

func (r *verificationCodeRepository) DeleteIssued(ctx context.Context, id int) error {
	return expectRow(r.pool.Exec(ctx,
		`DELETE FROM verification_codes WHERE id = $1 AND kind = 'issued'`, id))
}

func (r *verificationCodeRepository) CodeExists(ctx context.Context, value string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM verification_codes WHERE code = $1)`, value).Scan(&exists)
	return exists, err
}

func (r *verificationCodeRepository) PurgePersonal(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM verification_codes WHERE kind = 'personal' AND expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
