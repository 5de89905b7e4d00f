package model

import "time"

// CalendarEvent is an entry in the public event calendar.
type CalendarEvent struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	AllDay      bool       `json:"all_day"`
	Location    *string    `json:"location"`
	Color       string     `json:"color"`
	Tags        *string    `json:"tags"`
	IsPublic    bool       `json:"is_public"`
	CreatedBy   *int       `json:"created_by"`
	CreatorName string     `json:"creator_name"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventFilter narrows the event listing.
type EventFilter struct {
	Month         int
	Year          int
	Tag           string
	Search        string
	IncludeHidden bool
}

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description *string    `json:"description"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
	AllDay      bool       `json:"all_day"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	Color       string     `json:"color" binding:"omitempty,oneof=blue gold green red purple pink teal orange"`
	Tags        *string    `json:"tags" binding:"omitempty,max=500"`
	IsPublic    *bool      `json:"is_public"`
}

// UpdateEventRequest carries optional event changes.
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	AllDay      *bool      `json:"all_day"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	Color       *string    `json:"color" binding:"omitempty,oneof=blue gold green red purple pink teal orange"`
	Tags        *string    `json:"tags" binding:"omitempty,max=500"`
	IsPublic    *bool      `json:"is_public"`
}
