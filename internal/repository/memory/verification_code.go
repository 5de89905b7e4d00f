package memory

import (
	"context"
	"sort"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
)

type verificationCodeRepository struct {
	db *DB
}

// NewVerificationCodeRepository creates an in-memory VerificationCodeRepository.
func NewVerificationCodeRepository(db *DB) repository.VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

func (r *verificationCodeRepository) ReplacePersonal(_ context.Context, code *model.VerificationCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.courses[code.Personal.CourseID]; !ok {
		return repository.ErrNotFound
	}
	for _, vc := range r.db.codes {
		if vc.Personal != nil && !vc.Personal.Used &&
			vc.Personal.Email == code.Personal.Email && vc.Personal.CourseID == code.Personal.CourseID {
			vc.Personal.Used = true
		}
	}
	code.ID = r.db.nextID()
	code.CreatedAt = r.db.now()
	r.db.codes[code.ID] = cloneCode(code)
	return nil
}

func (r *verificationCodeRepository) FindPersonal(_ context.Context, email, code string, courseID int) (*model.VerificationCode, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var found *model.VerificationCode
	for _, vc := range r.db.codes {
		p := vc.Personal
		if p == nil || p.Used || p.Email != email || p.CourseID != courseID || vc.Code != code {
			continue
		}
		if found == nil || vc.CreatedAt.After(found.CreatedAt) {
			found = vc
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return cloneCode(found), nil
}

func (r *verificationCodeRepository) FindIssued(_ context.Context, code string) (*model.VerificationCode, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, vc := range r.db.codes {
		if vc.Issued != nil && vc.Code == code {
			return cloneCode(vc), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *verificationCodeRepository) ConsumeAndRate(_ context.Context, code *model.VerificationCode, rating *model.Rating, now time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.courses[rating.CourseID]; !ok {
		return repository.ErrNotFound
	}
	stored, ok := r.db.codes[code.ID]
	if !ok || !now.Before(stored.ExpiresAt) {
		return repository.ErrNotConsumable
	}
	switch {
	case stored.Issued != nil:
		i := stored.Issued
		if i.UseCount >= i.MaxUses {
			return repository.ErrNotConsumable
		}
		i.UseCount++
		i.Used = i.UseCount >= i.MaxUses
	case stored.Personal != nil:
		if stored.Personal.Used {
			return repository.ErrNotConsumable
		}
		stored.Personal.Used = true
	}
	rating.ID = r.db.nextID()
	rating.CreatedAt = r.db.now()
	r.db.ratings = append(r.db.ratings, *rating)
	return nil
}

func (r *verificationCodeRepository) ListIssued(_ context.Context) ([]*model.VerificationCode, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*model.VerificationCode
	for _, vc := range r.db.codes {
		if vc.Issued != nil {
			out = append(out, cloneCode(vc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *verificationCodeRepository) GetIssued(_ context.Context, id int) (*model.VerificationCode, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	vc, ok := r.db.codes[id]
	if !ok || vc.Issued == nil {
		return nil, repository.ErrNotFound
	}
	return cloneCode(vc), nil
}

func (r *verificationCodeRepository) CreateIssued(_ context.Context, code *model.VerificationCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, vc := range r.db.codes {
		if vc.Issued != nil && vc.Code == code.Code {
			return repository.ErrDuplicate
		}
	}
	code.ID = r.db.nextID()
	code.CreatedAt = r.db.now()
	r.db.codes[code.ID] = cloneCode(code)
	return nil
}

func (r *verificationCodeRepository) UpdateIssued(_ context.Context, code *model.VerificationCode) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.codes[code.ID]
	if !ok || stored.Issued == nil {
		return repository.ErrNotFound
	}
	if stored.Issued.UseCount > code.Issued.MaxUses {
		return repository.ErrCapBelowUseCount
	}
	stored.Issued.Label = code.Issued.Label
	stored.Issued.MaxUses = code.Issued.MaxUses
	stored.Issued.Used = stored.Issued.UseCount >= stored.Issued.MaxUses
	stored.ExpiresAt = code.ExpiresAt
	code.Issued.UseCount = stored.Issued.UseCount
	code.Issued.Used = stored.Issued.Used
	return nil
}

func (r *verificationCodeRepository) DeleteIssued(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	vc, ok := r.db.codes[id]
	if !ok || vc.Issued == nil {
		return repository.ErrNotFound
	}
	delete(r.db.codes, id)
	return nil
}

func (r *verificationCodeRepository) CodeExists(_ context.Context, value string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, vc := range r.db.codes {
		if vc.Code == value {
			return true, nil
		}
	}
	return false, nil
}

func (r *verificationCodeRepository) PurgePersonal(_ context.Context, cutoff time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, vc := range r.db.codes {
		if vc.Personal != nil && vc.ExpiresAt.Before(cutoff) {
			delete(r.db.codes, id)
			n++
		}
	}
	return n, nil
}
