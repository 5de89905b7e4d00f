package model

import "time"

// Course is a rateable unit of study.
type Course struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseWithRating is a course together with its aggregated rating.
type CourseWithRating struct {
	*Course
	CourseRating
}

// CourseStats summarizes how many courses exist and how many have ratings.
type CourseStats struct {
	Total int `json:"total"`
	Rated int `json:"rated"`
}

// CourseImportResult reports the outcome of a catalog import.
type CourseImportResult struct {
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name        string  `json:"name" binding:"required,max=300"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateCourseRequest carries optional course changes.
type UpdateCourseRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=300"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}
