package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/oeh-wirtschaft/oeh-backend/internal/catalog"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

// CourseService serves the course registry together with rating aggregates.
type CourseService struct {
	repo     repository.CourseRepository
	catalog  *catalog.Catalog
	activity *ActivityService
	log      zerolog.Logger
}

// NewCourseService creates a new CourseService. cat may be nil, which
// disables the catalog import.
func NewCourseService(repo repository.CourseRepository, cat *catalog.Catalog, activity *ActivityService, log zerolog.Logger) *CourseService {
	return &CourseService{
		repo:     repo,
		catalog:  cat,
		activity: activity,
		log:      log.With().Str("component", "courses").Logger(),
	}
}

func (s *CourseService) withRatings(ctx context.Context, courses []*model.Course) ([]model.CourseWithRating, error) {
	scores, err := s.repo.Scores(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	out := make([]model.CourseWithRating, 0, len(courses))
	for _, c := range courses {
		out = append(out, model.CourseWithRating{Course: c, CourseRating: ComputeCourseRating(scores[c.ID])})
	}
	return out, nil
}

// List returns courses ordered by name. Inactive courses are only included
// when includeInactive is set.
func (s *CourseService) List(ctx context.Context, search string, includeInactive bool) ([]model.CourseWithRating, error) {
	courses, err := s.repo.List(ctx, repository.CourseFilter{
		IncludeInactive: includeInactive,
		Search:          strings.TrimSpace(search),
	})
	if err != nil {
		return nil, err
	}
	return s.withRatings(ctx, courses)
}

// Top returns the best rated active courses.
func (s *CourseService) Top(ctx context.Context, limit int) ([]model.CourseWithRating, error) {
	all, err := s.List(ctx, "", false)
	if err != nil {
		return nil, err
	}
	return TopRated(all, limit), nil
}

// Stats counts active courses and how many of them have ratings.
func (s *CourseService) Stats(ctx context.Context) (*model.CourseStats, error) {
	all, err := s.List(ctx, "", false)
	if err != nil {
		return nil, err
	}
	stats := &model.CourseStats{Total: len(all)}
	for _, c := range all {
		if c.RatingCount > 0 {
			stats.Rated++
		}
	}
	return stats, nil
}

// Get returns one course with its rating. Public callers never see
// inactive courses.
func (s *CourseService) Get(ctx context.Context, id int, includeInactive bool) (*model.CourseWithRating, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrCourseNotFound)
	}
	if !c.IsActive && !includeInactive {
		return nil, ErrCourseNotFound
	}
	scores, err := s.repo.ScoresFor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	return &model.CourseWithRating{Course: c, CourseRating: ComputeCourseRating(scores)}, nil
}

// Create adds a course. Names are unique.
func (s *CourseService) Create(ctx context.Context, actor *model.Operator, req *model.CreateCourseRequest) (*model.Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("Name darf nicht leer sein")
	}
	c := &model.Course{Name: name, Description: req.Description, IsActive: true}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fromRepo(err, ErrCourseNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionCourseCreate,
		fmt.Sprintf("LVA '%s' erstellt", c.Name), target("lva", c.ID))
	return c, nil
}

// Update applies the non-nil fields of req.
func (s *CourseService) Update(ctx context.Context, actor *model.Operator, id int, req *model.UpdateCourseRequest) (*model.Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrCourseNotFound)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalidInput("Name darf nicht leer sein")
		}
		c.Name = name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fromRepo(err, ErrCourseNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionCourseUpdate,
		fmt.Sprintf("LVA '%s' aktualisiert", c.Name), target("lva", c.ID))
	return c, nil
}

// Delete removes a course along with its ratings and personal codes.
func (s *CourseService) Delete(ctx context.Context, actor *model.Operator, id int) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, ErrCourseNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, ErrCourseNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionCourseDelete,
		fmt.Sprintf("LVA '%s' gelöscht", c.Name), target("lva", c.ID))
	return nil
}

// Import inserts the embedded catalog courses that do not exist yet.
func (s *CourseService) Import(ctx context.Context, actor *model.Operator) (*model.CourseImportResult, error) {
	if s.catalog == nil {
		return nil, invalidInput("Kein LVA-Katalog verfügbar")
	}
	imported, skipped, err := s.catalog.ImportCourses(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, model.ActionCourseImport,
		fmt.Sprintf("%d LVAs importiert", imported), nil)
	return &model.CourseImportResult{
		Imported: imported,
		Skipped:  skipped,
		Message:  fmt.Sprintf("%d LVAs importiert, %d übersprungen", imported, skipped),
	}, nil
}
