package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
)

type operatorRepository struct {
	db *DB
}

// NewOperatorRepository creates an in-memory OperatorRepository.
func NewOperatorRepository(db *DB) repository.OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) find(match func(*model.Operator) bool) (*model.Operator, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	ids := make([]int, 0, len(r.db.operators))
	for id := range r.db.operators {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if op := r.db.operators[id]; match(op) {
			cp := *op
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *operatorRepository) GetByID(_ context.Context, id int) (*model.Operator, error) {
	return r.find(func(op *model.Operator) bool { return op.ID == id })
}

func (r *operatorRepository) GetByUsername(_ context.Context, username string) (*model.Operator, error) {
	return r.find(func(op *model.Operator) bool { return op.Username == username })
}

func (r *operatorRepository) GetByLogin(ctx context.Context, login string) (*model.Operator, error) {
	if op, err := r.GetByUsername(ctx, login); err == nil {
		return op, nil
	}
	return r.find(func(op *model.Operator) bool { return strings.EqualFold(op.Email, login) })
}

func (r *operatorRepository) GetMaster(_ context.Context) (*model.Operator, error) {
	return r.find(func(op *model.Operator) bool { return op.IsMaster })
}

func (r *operatorRepository) List(_ context.Context) ([]*model.Operator, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	ops := make([]*model.Operator, 0, len(r.db.operators))
	for _, op := range r.db.operators {
		cp := *op
		ops = append(ops, &cp)
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].IsMaster != ops[j].IsMaster {
			return ops[i].IsMaster
		}
		return ops[i].ID < ops[j].ID
	})
	return ops, nil
}

// conflicts reports a unique-constraint clash with any other operator.
func (r *operatorRepository) conflicts(op *model.Operator) bool {
	for _, other := range r.db.operators {
		if other.ID == op.ID {
			continue
		}
		if other.Username == op.Username || strings.EqualFold(other.Email, op.Email) {
			return true
		}
		if op.IsMaster && other.IsMaster {
			return true
		}
	}
	return false
}

func (r *operatorRepository) Create(_ context.Context, op *model.Operator) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.conflicts(op) {
		return repository.ErrDuplicate
	}
	op.ID = r.db.nextID()
	op.CreatedAt = r.db.now()
	op.UpdatedAt = op.CreatedAt
	cp := *op
	r.db.operators[op.ID] = &cp
	return nil
}

func (r *operatorRepository) Update(_ context.Context, op *model.Operator) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.operators[op.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.conflicts(op) {
		return repository.ErrDuplicate
	}
	op.UpdatedAt = r.db.now()
	stored.Username = op.Username
	stored.Email = op.Email
	stored.DisplayName = op.DisplayName
	stored.Role = op.Role
	stored.IsActive = op.IsActive
	stored.PasswordHash = op.PasswordHash
	stored.UpdatedAt = op.UpdatedAt
	return nil
}

func (r *operatorRepository) UpdatePassword(_ context.Context, id int, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.operators[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.PasswordHash = hash
	stored.UpdatedAt = r.db.now()
	return nil
}

func (r *operatorRepository) TouchLastLogin(_ context.Context, id int, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.operators[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.LastLoginAt = &at
	return nil
}

func (r *operatorRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.operators[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.operators, id)
	r.db.detachOperator(id)
	return nil
}

func (r *operatorRepository) Counts(_ context.Context) (total, active int, err error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, op := range r.db.operators {
		total++
		if op.IsActive {
			active++
		}
	}
	return total, active, nil
}
