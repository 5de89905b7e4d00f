package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
)

// ─── Activity ────────────────────────────────────────────────────────

type activityRepository struct {
	db *DB
}

// NewActivityRepository creates an in-memory ActivityRepository.
func NewActivityRepository(db *DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(_ context.Context, e *model.ActivityEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e.ID = r.db.nextID()
	e.CreatedAt = r.db.now()
	if op := r.db.operator(e.OperatorID); op != nil {
		e.ActorName = op.DisplayName
	}
	r.db.activity = append(r.db.activity, *e)
	return nil
}

func (r *activityRepository) ListRecent(_ context.Context, limit int) ([]model.ActivityEntry, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []model.ActivityEntry{}
	for i := len(r.db.activity) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.db.activity[i])
	}
	return out, nil
}

// ─── News ────────────────────────────────────────────────────────────

type newsRepository struct {
	db *DB
}

// NewNewsRepository creates an in-memory NewsRepository.
func NewNewsRepository(db *DB) repository.NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) withAuthor(n *model.News) *model.News {
	cp := *n
	if op := r.db.operator(n.AuthorID); op != nil {
		cp.AuthorName = op.DisplayName
	}
	return &cp
}

func (r *newsRepository) List(_ context.Context, publishedOnly bool) ([]*model.News, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*model.News
	for _, n := range r.db.news {
		if publishedOnly && !n.IsPublished {
			continue
		}
		out = append(out, r.withAuthor(n))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if (a.PublishedAt == nil) != (b.PublishedAt == nil) {
			return a.PublishedAt != nil
		}
		if a.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt) {
			return a.PublishedAt.After(*b.PublishedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (r *newsRepository) GetByID(_ context.Context, id int) (*model.News, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	n, ok := r.db.news[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withAuthor(n), nil
}

func (r *newsRepository) Create(_ context.Context, n *model.News) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.operator(n.AuthorID) == nil {
		return repository.ErrNotFound
	}
	n.ID = r.db.nextID()
	n.CreatedAt = r.db.now()
	n.UpdatedAt = n.CreatedAt
	cp := *n
	r.db.news[n.ID] = &cp
	return nil
}

func (r *newsRepository) Update(_ context.Context, n *model.News) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.news[n.ID]
	if !ok {
		return repository.ErrNotFound
	}
	n.UpdatedAt = r.db.now()
	n.Views = stored.Views
	cp := *n
	r.db.news[n.ID] = &cp
	return nil
}

func (r *newsRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.news[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.news, id)
	return nil
}

func (r *newsRepository) IncrementViews(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.news[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.Views++
	return nil
}

// ─── Events ──────────────────────────────────────────────────────────

type eventRepository struct {
	db *DB
}

// NewEventRepository creates an in-memory EventRepository.
func NewEventRepository(db *DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) withCreator(e *model.CalendarEvent) *model.CalendarEvent {
	cp := *e
	if op := r.db.operator(e.CreatedBy); op != nil {
		cp.CreatorName = op.DisplayName
	}
	return &cp
}

func containsFold(s *string, sub string) bool {
	return s != nil && strings.Contains(strings.ToLower(*s), strings.ToLower(sub))
}

func (r *eventRepository) List(_ context.Context, f model.EventFilter) ([]*model.CalendarEvent, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*model.CalendarEvent
	for _, e := range r.db.events {
		switch {
		case !f.IncludeHidden && !e.IsPublic:
			continue
		case f.Month != 0 && int(e.StartDate.Month()) != f.Month:
			continue
		case f.Year != 0 && e.StartDate.Year() != f.Year:
			continue
		case f.Tag != "" && !containsFold(e.Tags, f.Tag):
			continue
		case f.Search != "" && !containsFold(&e.Title, f.Search) && !containsFold(e.Description, f.Search):
			continue
		}
		out = append(out, r.withCreator(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *eventRepository) GetByID(_ context.Context, id int) (*model.CalendarEvent, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	e, ok := r.db.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withCreator(e), nil
}

func (r *eventRepository) Create(_ context.Context, e *model.CalendarEvent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e.ID = r.db.nextID()
	e.CreatedAt = r.db.now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	r.db.events[e.ID] = &cp
	return nil
}

func (r *eventRepository) Update(_ context.Context, e *model.CalendarEvent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[e.ID]; !ok {
		return repository.ErrNotFound
	}
	e.UpdatedAt = r.db.now()
	cp := *e
	r.db.events[e.ID] = &cp
	return nil
}

func (r *eventRepository) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.events, id)
	return nil
}

func (r *eventRepository) TagLists(_ context.Context) ([]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var lists []string
	for _, e := range r.db.events {
		if e.IsPublic && e.Tags != nil && *e.Tags != "" {
			lists = append(lists, *e.Tags)
		}
	}
	return lists, nil
}

// ─── Settings ────────────────────────────────────────────────────────

type settingRepository struct {
	db *DB
}

// NewSettingRepository creates an in-memory SettingRepository.
func NewSettingRepository(db *DB) repository.SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetAll(_ context.Context) ([]model.AppSetting, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.AppSetting, 0, len(r.db.settings))
	for _, s := range r.db.settings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *settingRepository) GetByKey(_ context.Context, key string) (*model.AppSetting, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.settings[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *settingRepository) Upsert(_ context.Context, key, value string) (*model.AppSetting, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s := model.AppSetting{Key: key, Value: value, UpdatedAt: r.db.now()}
	r.db.settings[key] = s
	return &s, nil
}

// ─── Dashboard ───────────────────────────────────────────────────────

type dashboardRepository struct {
	db *DB
}

// NewDashboardRepository creates an in-memory DashboardRepository.
func NewDashboardRepository(db *DB) repository.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) GetNewsCounts(_ context.Context) (repository.NewsCounts, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var c repository.NewsCounts
	for _, n := range r.db.news {
		c.Total++
		c.Views += n.Views
		if n.IsPublished {
			c.Published++
		}
	}
	return c, nil
}

func (r *dashboardRepository) GetNewsPriorityCounts(_ context.Context) (map[model.NewsPriority]int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	counts := make(map[model.NewsPriority]int, len(model.AllNewsPriorities))
	for _, p := range model.AllNewsPriorities {
		counts[p] = 0
	}
	for _, n := range r.db.news {
		counts[n.Priority]++
	}
	return counts, nil
}
