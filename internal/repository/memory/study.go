package memory

import (
	"context"
	"sort"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
)

type studyRepository struct {
	db *DB
}

// NewStudyRepository creates an in-memory StudyRepository.
func NewStudyRepository(db *DB) repository.StudyRepository {
	return &studyRepository{db: db}
}

// ─── Categories ──────────────────────────────────────────────────────

func (r *studyRepository) ListCategories(_ context.Context) ([]*model.StudyCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*model.StudyCategory, 0, len(r.db.categories))
	for _, c := range r.db.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *studyRepository) GetCategory(_ context.Context, id int) (*model.StudyCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *studyRepository) categoryNameTaken(name string, exceptID int) bool {
	for _, c := range r.db.categories {
		if c.ID != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

func (r *studyRepository) CreateCategory(_ context.Context, c *model.StudyCategory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.categoryNameTaken(c.Name, 0) {
		return repository.ErrDuplicate
	}
	c.ID = r.db.nextID()
	c.CreatedAt = r.db.now()
	cp := *c
	r.db.categories[c.ID] = &cp
	return nil
}

func (r *studyRepository) UpdateCategory(_ context.Context, c *model.StudyCategory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.categoryNameTaken(c.Name, c.ID) {
		return repository.ErrDuplicate
	}
	cp := *c
	r.db.categories[c.ID] = &cp
	return nil
}

func (r *studyRepository) DeleteCategory(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.categories, id)
	for pid, p := range r.db.programs {
		if p.CategoryID == id {
			r.deleteProgramLocked(pid)
		}
	}
	return nil
}

func (r *studyRepository) CountCategories(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.categories), nil
}

// ─── Programs ────────────────────────────────────────────────────────

func (r *studyRepository) withCategory(p *model.StudyProgram) *model.StudyProgram {
	cp := *p
	if c, ok := r.db.categories[p.CategoryID]; ok {
		name := c.DisplayName
		cp.CategoryName = &name
	}
	return &cp
}

func (r *studyRepository) ListPrograms(_ context.Context, categoryID int, activeOnly bool) ([]*model.StudyProgram, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*model.StudyProgram
	for _, p := range r.db.programs {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, r.withCategory(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *studyRepository) GetProgram(_ context.Context, id int) (*model.StudyProgram, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withCategory(p), nil
}

func (r *studyRepository) CreateProgram(_ context.Context, p *model.StudyProgram) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[p.CategoryID]; !ok {
		return repository.ErrNotFound
	}
	p.ID = r.db.nextID()
	p.CreatedAt = r.db.now()
	cp := *p
	r.db.programs[p.ID] = &cp
	return nil
}

func (r *studyRepository) UpdateProgram(_ context.Context, p *model.StudyProgram) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.programs[p.ID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.db.categories[p.CategoryID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	r.db.programs[p.ID] = &cp
	return nil
}

func (r *studyRepository) DeleteProgram(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.programs[id]; !ok {
		return repository.ErrNotFound
	}
	r.deleteProgramLocked(id)
	return nil
}

func (r *studyRepository) deleteProgramLocked(id int) {
	delete(r.db.programs, id)
	for uid, u := range r.db.updates {
		if u.ProgramID == id {
			delete(r.db.updates, uid)
		}
	}
}

// ─── Updates ─────────────────────────────────────────────────────────

func (r *studyRepository) withProgram(u *model.StudyUpdate) *model.StudyUpdate {
	cp := *u
	if p, ok := r.db.programs[u.ProgramID]; ok {
		name := p.Name
		cp.ProgramName = &name
		if c, ok := r.db.categories[p.CategoryID]; ok {
			cat := c.DisplayName
			cp.CategoryName = &cat
		}
	}
	return &cp
}

func (r *studyRepository) ListUpdates(_ context.Context, programID int, activeOnly bool) ([]*model.StudyUpdate, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*model.StudyUpdate
	for _, u := range r.db.updates {
		if programID != 0 && u.ProgramID != programID {
			continue
		}
		if activeOnly {
			p, ok := r.db.programs[u.ProgramID]
			if !u.IsActive || !ok || !p.IsActive {
				continue
			}
		}
		out = append(out, r.withProgram(u))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if *a.ProgramName != *b.ProgramName {
			return *a.ProgramName < *b.ProgramName
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *studyRepository) GetUpdate(_ context.Context, id int) (*model.StudyUpdate, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.updates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withProgram(u), nil
}

func (r *studyRepository) CreateUpdate(_ context.Context, u *model.StudyUpdate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.programs[u.ProgramID]; !ok {
		return repository.ErrNotFound
	}
	u.ID = r.db.nextID()
	u.CreatedAt = r.db.now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.db.updates[u.ID] = &cp
	return nil
}

func (r *studyRepository) UpdateUpdate(_ context.Context, u *model.StudyUpdate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.updates[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.db.programs[u.ProgramID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = r.db.now()
	cp := *u
	r.db.updates[u.ID] = &cp
	return nil
}

func (r *studyRepository) DeleteUpdate(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.updates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.updates, id)
	return nil
}
