package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

// StudyService manages study categories, programs and curriculum updates.
type StudyService struct {
	repo     repository.StudyRepository
	activity *ActivityService
	log      zerolog.Logger
}

// NewStudyService creates a new StudyService.
func NewStudyService(repo repository.StudyRepository, activity *ActivityService, log zerolog.Logger) *StudyService {
	return &StudyService{
		repo:     repo,
		activity: activity,
		log:      log.With().Str("component", "study").Logger(),
	}
}

func required(v *string, field string) (string, error) {
	if blank(v) {
		return "", invalidInput(field + " ist erforderlich")
	}
	return strings.TrimSpace(*v), nil
}

// ─── Categories ──────────────────────────────────────────────────────

// Categories lists categories with their programs nested. activeOnly hides
// inactive programs.
func (s *StudyService) Categories(ctx context.Context, activeOnly bool) ([]*model.StudyCategory, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	programs, err := s.repo.ListPrograms(ctx, 0, activeOnly)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int][]model.StudyProgram)
	for _, p := range programs {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], *p)
	}
	for _, c := range cats {
		c.Programs = byCategory[c.ID]
		if c.Programs == nil {
			c.Programs = []model.StudyProgram{}
		}
	}
	return cats, nil
}

// CreateCategory adds a category. name and display_name are required.
func (s *StudyService) CreateCategory(ctx context.Context, actor *model.Operator, req *model.StudyCategoryRequest) (*model.StudyCategory, error) {
	name, err := required(req.Name, "name")
	if err != nil {
		return nil, err
	}
	display, err := required(req.DisplayName, "display_name")
	if err != nil {
		return nil, err
	}

	c := &model.StudyCategory{Name: name, DisplayName: display, Description: req.Description, Color: "blue"}
	if req.Color != nil && *req.Color != "" {
		c.Color = *req.Color
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionCategoryCreate,
		fmt.Sprintf("Kategorie '%s' erstellt", c.DisplayName), target("category", c.ID))
	return c, nil
}

// UpdateCategory applies the non-nil fields of req.
func (s *StudyService) UpdateCategory(ctx context.Context, actor *model.Operator, id int, req *model.StudyCategoryRequest) (*model.StudyCategory, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}
	if req.Name != nil {
		if c.Name, err = required(req.Name, "name"); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if c.DisplayName, err = required(req.DisplayName, "display_name"); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Color != nil && *req.Color != "" {
		c.Color = *req.Color
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionCategoryUpdate,
		fmt.Sprintf("Kategorie '%s' aktualisiert", c.DisplayName), target("category", c.ID))
	return c, nil
}

// DeleteCategory removes a category with its programs and updates.
func (s *StudyService) DeleteCategory(ctx context.Context, actor *model.Operator, id int) error {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return fromRepo(err, ErrNotFound)
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionCategoryDelete,
		fmt.Sprintf("Kategorie '%s' gelöscht", c.DisplayName), target("category", c.ID))
	return nil
}

// ─── Programs ────────────────────────────────────────────────────────

// Programs lists programs, optionally of one category (categoryID > 0).
func (s *StudyService) Programs(ctx context.Context, categoryID int, activeOnly bool) ([]*model.StudyProgram, error) {
	return s.repo.ListPrograms(ctx, categoryID, activeOnly)
}

// CreateProgram adds a program to an existing category.
func (s *StudyService) CreateProgram(ctx context.Context, actor *model.Operator, req *model.StudyProgramRequest) (*model.StudyProgram, error) {
	if req.CategoryID == nil {
		return nil, invalidInput("category_id ist erforderlich")
	}
	name, err := required(req.Name, "name")
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	p := &model.StudyProgram{
		CategoryID:  *req.CategoryID,
		Name:        name,
		ShortName:   req.ShortName,
		Description: req.Description,
		IsActive:    true,
	}
	if req.SortOrder != nil {
		p.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.CreateProgram(ctx, p); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionProgramCreate,
		fmt.Sprintf("Studiengang '%s' erstellt", p.Name), target("program", p.ID))
	return p, nil
}

// UpdateProgram applies the non-nil fields of req.
func (s *StudyService) UpdateProgram(ctx context.Context, actor *model.Operator, id int, req *model.StudyProgramRequest) (*model.StudyProgram, error) {
	p, err := s.repo.GetProgram(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, fromRepo(err, ErrNotFound)
		}
		p.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		if p.Name, err = required(req.Name, "name"); err != nil {
			return nil, err
		}
	}
	if req.ShortName != nil {
		p.ShortName = req.ShortName
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.SortOrder != nil {
		p.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateProgram(ctx, p); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionProgramUpdate,
		fmt.Sprintf("Studiengang '%s' aktualisiert", p.Name), target("program", p.ID))
	return p, nil
}

// DeleteProgram removes a program with its updates.
func (s *StudyService) DeleteProgram(ctx context.Context, actor *model.Operator, id int) error {
	p, err := s.repo.GetProgram(ctx, id)
	if err != nil {
		return fromRepo(err, ErrNotFound)
	}
	if err := s.repo.DeleteProgram(ctx, id); err != nil {
		return fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionProgramDelete,
		fmt.Sprintf("Studiengang '%s' gelöscht", p.Name), target("program", p.ID))
	return nil
}

// ─── Updates ─────────────────────────────────────────────────────────

// Updates lists curriculum updates, optionally of one program (programID > 0).
func (s *StudyService) Updates(ctx context.Context, programID int, activeOnly bool) ([]*model.StudyUpdate, error) {
	return s.repo.ListUpdates(ctx, programID, activeOnly)
}

// GroupedUpdates bundles active updates under their active programs,
// ordered by program name.
func (s *StudyService) GroupedUpdates(ctx context.Context) ([]model.StudyUpdateGroup, error) {
	programs, err := s.repo.ListPrograms(ctx, 0, true)
	if err != nil {
		return nil, err
	}
	active := make(map[int]bool, len(programs))
	for _, p := range programs {
		active[p.ID] = true
	}

	updates, err := s.repo.ListUpdates(ctx, 0, true)
	if err != nil {
		return nil, err
	}

	groups := []model.StudyUpdateGroup{}
	index := make(map[int]int)
	for _, u := range updates {
		if !active[u.ProgramID] {
			continue
		}
		i, ok := index[u.ProgramID]
		if !ok {
			g := model.StudyUpdateGroup{ProgramID: u.ProgramID, CategoryName: u.CategoryName}
			if u.ProgramName != nil {
				g.ProgramName = *u.ProgramName
			}
			groups = append(groups, g)
			i = len(groups) - 1
			index[u.ProgramID] = i
		}
		groups[i].Updates = append(groups[i].Updates, *u)
	}
	return groups, nil
}

// CreateUpdate adds a curriculum update to an existing program.
func (s *StudyService) CreateUpdate(ctx context.Context, actor *model.Operator, req *model.StudyUpdateRequest) (*model.StudyUpdate, error) {
	if req.ProgramID == nil {
		return nil, invalidInput("program_id ist erforderlich")
	}
	content, err := required(req.Content, "content")
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetProgram(ctx, *req.ProgramID)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	creatorID := actor.ID
	u := &model.StudyUpdate{
		ProgramID: p.ID,
		Content:   content,
		Semester:  req.Semester,
		IsActive:  true,
		CreatedBy: &creatorID,
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		u.SortOrder = *req.SortOrder
	}
	if err := s.repo.CreateUpdate(ctx, u); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionUpdateCreate,
		fmt.Sprintf("Studienupdate für '%s' erstellt", p.Name), target("update", u.ID))
	return u, nil
}

// UpdateUpdate applies the non-nil fields of req.
func (s *StudyService) UpdateUpdate(ctx context.Context, actor *model.Operator, id int, req *model.StudyUpdateRequest) (*model.StudyUpdate, error) {
	u, err := s.repo.GetUpdate(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}
	if req.ProgramID != nil {
		if _, err := s.repo.GetProgram(ctx, *req.ProgramID); err != nil {
			return nil, fromRepo(err, ErrNotFound)
		}
		u.ProgramID = *req.ProgramID
	}
	if req.Content != nil {
		if u.Content, err = required(req.Content, "content"); err != nil {
			return nil, err
		}
	}
	if req.Semester != nil {
		u.Semester = req.Semester
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		u.SortOrder = *req.SortOrder
	}
	if err := s.repo.UpdateUpdate(ctx, u); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionUpdateUpdate,
		"Studienupdate aktualisiert", target("update", u.ID))
	return u, nil
}

// DeleteUpdate removes a curriculum update.
func (s *StudyService) DeleteUpdate(ctx context.Context, actor *model.Operator, id int) error {
	if err := s.repo.DeleteUpdate(ctx, id); err != nil {
		return fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionUpdateDelete,
		"Studienupdate gelöscht", target("update", id))
	return nil
}
