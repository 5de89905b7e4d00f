package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/oeh-wirtschaft/oeh-backend/internal/authz"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

// EventService manages the event calendar.
type EventService struct {
	repo     repository.EventRepository
	activity *ActivityService
	log      zerolog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(repo repository.EventRepository, activity *ActivityService, log zerolog.Logger) *EventService {
	return &EventService{
		repo:     repo,
		activity: activity,
		log:      log.With().Str("component", "events").Logger(),
	}
}

func checkDates(e *model.CalendarEvent) error {
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return invalidInput("Enddatum darf nicht vor dem Startdatum liegen")
	}
	return nil
}

// List returns events ordered by start date.
func (s *EventService) List(ctx context.Context, f model.EventFilter) ([]*model.CalendarEvent, error) {
	if f.Month < 0 || f.Month > 12 {
		return nil, invalidInput("Monat muss zwischen 1 und 12 liegen")
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Tag = strings.TrimSpace(f.Tag)
	return s.repo.List(ctx, f)
}

// Tags returns the sorted set of tags used by public events.
func (s *EventService) Tags(ctx context.Context) ([]string, error) {
	lists, err := s.repo.TagLists(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	tags := []string{}
	for _, list := range lists {
		for _, tag := range strings.Split(list, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// Get returns one event. Hidden events are only visible with includeHidden.
func (s *EventService) Get(ctx context.Context, id int, includeHidden bool) (*model.CalendarEvent, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}
	if !e.IsPublic && !includeHidden {
		return nil, ErrNotFound
	}
	return e, nil
}

// Create adds an event created by actor.
func (s *EventService) Create(ctx context.Context, actor *model.Operator, req *model.CreateEventRequest) (*model.CalendarEvent, error) {
	creatorID := actor.ID
	e := &model.CalendarEvent{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AllDay:      req.AllDay,
		Location:    req.Location,
		Color:       req.Color,
		Tags:        req.Tags,
		IsPublic:    true,
		CreatedBy:   &creatorID,
		CreatorName: actor.DisplayName,
	}
	if e.Color == "" {
		e.Color = "blue"
	}
	if req.IsPublic != nil {
		e.IsPublic = *req.IsPublic
	}
	if err := checkDates(e); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionEventCreate,
		fmt.Sprintf("Event '%s' erstellt", e.Title), target("event", e.ID))
	return e, nil
}

// Update applies req. Only the creator or a master may edit.
func (s *EventService) Update(ctx context.Context, actor *model.Operator, id int, req *model.UpdateEventRequest) (*model.CalendarEvent, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}
	if !authz.CanModifyAuthored(actor, e.CreatedBy) {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = req.EndDate
	}
	if req.AllDay != nil {
		e.AllDay = *req.AllDay
	}
	if req.Location != nil {
		e.Location = req.Location
	}
	if req.Color != nil {
		e.Color = *req.Color
	}
	if req.Tags != nil {
		e.Tags = req.Tags
	}
	if req.IsPublic != nil {
		e.IsPublic = *req.IsPublic
	}
	if err := checkDates(e); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionEventUpdate,
		fmt.Sprintf("Event '%s' aktualisiert", e.Title), target("event", e.ID))
	return e, nil
}

// Delete removes an event. Only the creator or a master may delete.
func (s *EventService) Delete(ctx context.Context, actor *model.Operator, id int) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, ErrNotFound)
	}
	if !authz.CanModifyAuthored(actor, e.CreatedBy) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionEventDelete,
		fmt.Sprintf("Event '%s' gelöscht", e.Title), target("event", e.ID))
	return nil
}
