package model

import "time"

// NewsPriority ranks news posts.
type NewsPriority string

const (
	NewsPriorityLow    NewsPriority = "low"
	NewsPriorityMedium NewsPriority = "medium"
	NewsPriorityHigh   NewsPriority = "high"
	NewsPriorityUrgent NewsPriority = "urgent"
)

// AllNewsPriorities lists priorities in ascending order.
var AllNewsPriorities = []NewsPriority{NewsPriorityLow, NewsPriorityMedium, NewsPriorityHigh, NewsPriorityUrgent}

// News is a post on the public news page.
type News struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Excerpt     *string      `json:"excerpt"`
	Priority    NewsPriority `json:"priority"`
	Color       string       `json:"color"`
	IsPublished bool         `json:"is_published"`
	IsPinned    bool         `json:"is_pinned"`
	Views       int          `json:"views"`
	AuthorID    *int         `json:"author_id"`
	AuthorName  string       `json:"author_name"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	PublishedAt *time.Time   `json:"published_at"`
}

// CreateNewsRequest is the payload for creating a news post.
type CreateNewsRequest struct {
	Title       string       `json:"title" binding:"required,max=200"`
	Content     string       `json:"content" binding:"required"`
	Excerpt     *string      `json:"excerpt" binding:"omitempty,max=300"`
	Priority    NewsPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Color       string       `json:"color" binding:"omitempty,oneof=blue gold green red purple slate"`
	IsPublished bool         `json:"is_published"`
	IsPinned    bool         `json:"is_pinned"`
}

// UpdateNewsRequest carries optional news changes.
type UpdateNewsRequest struct {
	Title       *string       `json:"title" binding:"omitempty,min=1,max=200"`
	Content     *string       `json:"content" binding:"omitempty,min=1"`
	Excerpt     *string       `json:"excerpt" binding:"omitempty,max=300"`
	Priority    *NewsPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Color       *string       `json:"color" binding:"omitempty,oneof=blue gold green red purple slate"`
	IsPublished *bool         `json:"is_published"`
	IsPinned    *bool         `json:"is_pinned"`
}
