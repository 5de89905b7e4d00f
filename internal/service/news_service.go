package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oeh-wirtschaft/oeh-backend/internal/authz"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

const excerptRunes = 200

// NewsService manages news posts.
type NewsService struct {
	repo     repository.NewsRepository
	activity *ActivityService
	log      zerolog.Logger
	now      func() time.Time
}

// NewNewsService creates a new NewsService.
func NewNewsService(repo repository.NewsRepository, activity *ActivityService, log zerolog.Logger) *NewsService {
	return &NewsService{
		repo:     repo,
		activity: activity,
		log:      log.With().Str("component", "news").Logger(),
		now:      time.Now,
	}
}

// deriveExcerpt cuts content to the first 200 runes, marking the cut.
func deriveExcerpt(content string) *string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= excerptRunes {
		return &content
	}
	cut := string([]rune(content)[:excerptRunes]) + "…"
	return &cut
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// List returns news in display order, optionally only published items.
func (s *NewsService) List(ctx context.Context, publishedOnly bool) ([]*model.News, error) {
	return s.repo.List(ctx, publishedOnly)
}

// Get returns any news item.
func (s *NewsService) Get(ctx context.Context, id int) (*model.News, error) {
	n, err := s.repo.GetByID(ctx, id)
	return n, fromRepo(err, ErrNotFound)
}

// View returns a published item and counts the view.
func (s *NewsService) View(ctx context.Context, id int) (*model.News, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}
	if !n.IsPublished {
		return nil, ErrNotFound
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("news_id", id).Msg("Failed to count view")
	} else {
		n.Views++
	}
	return n, nil
}

// Create adds a news item authored by actor.
func (s *NewsService) Create(ctx context.Context, actor *model.Operator, req *model.CreateNewsRequest) (*model.News, error) {
	authorID := actor.ID
	n := &model.News{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Priority:    req.Priority,
		Color:       req.Color,
		IsPublished: req.IsPublished,
		IsPinned:    req.IsPinned,
		AuthorID:    &authorID,
		AuthorName:  actor.DisplayName,
	}
	if n.Priority == "" {
		n.Priority = model.NewsPriorityMedium
	}
	if n.Color == "" {
		n.Color = "blue"
	}
	if blank(n.Excerpt) {
		n.Excerpt = deriveExcerpt(n.Content)
	}
	if n.IsPublished {
		now := s.now()
		n.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionNewsCreate,
		fmt.Sprintf("News '%s' erstellt", n.Title), target("news", n.ID))
	return n, nil
}

// Update applies req. Only the author or a master may edit.
func (s *NewsService) Update(ctx context.Context, actor *model.Operator, id int, req *model.UpdateNewsRequest) (*model.News, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}
	if !authz.CanModifyAuthored(actor, n.AuthorID) {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		n.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	if req.Excerpt != nil {
		n.Excerpt = req.Excerpt
	}
	if blank(n.Excerpt) {
		n.Excerpt = deriveExcerpt(n.Content)
	}
	if req.Priority != nil {
		n.Priority = *req.Priority
	}
	if req.Color != nil {
		n.Color = *req.Color
	}
	if req.IsPinned != nil {
		n.IsPinned = *req.IsPinned
	}
	if req.IsPublished != nil {
		n.IsPublished = *req.IsPublished
		if n.IsPublished && n.PublishedAt == nil {
			now := s.now()
			n.PublishedAt = &now
		}
	}

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionNewsUpdate,
		fmt.Sprintf("News '%s' aktualisiert", n.Title), target("news", n.ID))
	return n, nil
}

// Delete removes a news item. Only the author or a master may delete.
func (s *NewsService) Delete(ctx context.Context, actor *model.Operator, id int) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, ErrNotFound)
	}
	if !authz.CanModifyAuthored(actor, n.AuthorID) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionNewsDelete,
		fmt.Sprintf("News '%s' gelöscht", n.Title), target("news", n.ID))
	return nil
}
