package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
)

type courseRepository struct {
	db *DB
}

// NewCourseRepository creates an in-memory CourseRepository.
func NewCourseRepository(db *DB) repository.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(_ context.Context, f repository.CourseFilter) ([]*model.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	search := strings.ToLower(f.Search)
	var out []*model.Course
	for _, c := range r.db.courses {
		if !f.IncludeInactive && !c.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *courseRepository) GetByID(_ context.Context, id int) (*model.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *courseRepository) nameTaken(name string, exceptID int) bool {
	for _, c := range r.db.courses {
		if c.ID != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

func (r *courseRepository) Create(_ context.Context, c *model.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.nameTaken(c.Name, 0) {
		return repository.ErrDuplicate
	}
	c.ID = r.db.nextID()
	c.CreatedAt = r.db.now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.db.courses[c.ID] = &cp
	return nil
}

func (r *courseRepository) Update(_ context.Context, c *model.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.courses[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return repository.ErrDuplicate
	}
	c.UpdatedAt = r.db.now()
	cp := *c
	r.db.courses[c.ID] = &cp
	return nil
}

func (r *courseRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.courses, id)
	kept := r.db.ratings[:0]
	for _, rt := range r.db.ratings {
		if rt.CourseID != id {
			kept = append(kept, rt)
		}
	}
	r.db.ratings = kept
	for codeID, vc := range r.db.codes {
		if vc.Personal != nil && vc.Personal.CourseID == id {
			delete(r.db.codes, codeID)
		}
	}
	return nil
}

func (r *courseRepository) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.courses), nil
}

func (r *courseRepository) CreateIfMissing(_ context.Context, name string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.nameTaken(name, 0) {
		return false, nil
	}
	c := &model.Course{ID: r.db.nextID(), Name: name, IsActive: true, CreatedAt: r.db.now()}
	c.UpdatedAt = c.CreatedAt
	r.db.courses[c.ID] = c
	return true, nil
}

func (r *courseRepository) Scores(_ context.Context) (map[int][]model.Score, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	scores := make(map[int][]model.Score)
	for _, rt := range r.db.ratings {
		scores[rt.CourseID] = append(scores[rt.CourseID], model.Score{Effort: rt.Effort, Difficulty: rt.Difficulty})
	}
	return scores, nil
}

func (r *courseRepository) ScoresFor(_ context.Context, courseID int) ([]model.Score, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var scores []model.Score
	for _, rt := range r.db.ratings {
		if rt.CourseID == courseID {
			scores = append(scores, model.Score{Effort: rt.Effort, Difficulty: rt.Difficulty})
		}
	}
	return scores, nil
}
