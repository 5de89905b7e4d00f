package model

import "time"

// StudyCategory groups study programs (bachelor, master, ...).
type StudyCategory struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Description *string        `json:"description"`
	Color       string         `json:"color"`
	SortOrder   int            `json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	Programs    []StudyProgram `json:"programs,omitempty"`
}

// StudyProgram is a degree program within a category.
type StudyProgram struct {
	ID           int       `json:"id"`
	CategoryID   int       `json:"category_id"`
	CategoryName *string   `json:"category_name,omitempty"`
	Name         string    `json:"name"`
	ShortName    *string   `json:"short_name"`
	Description  *string   `json:"description"`
	SortOrder    int       `json:"sort_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudyUpdate is a curriculum change note for a program.
type StudyUpdate struct {
	ID           int       `json:"id"`
	ProgramID    int       `json:"program_id"`
	ProgramName  *string   `json:"program_name,omitempty"`
	CategoryName *string   `json:"category_name,omitempty"`
	Content      string    `json:"content"`
	Semester     *string   `json:"semester"`
	IsActive     bool      `json:"is_active"`
	SortOrder    int       `json:"sort_order"`
	CreatedBy    *int      `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudyUpdateGroup bundles the active updates of one program.
type StudyUpdateGroup struct {
	ProgramID    int           `json:"program_id"`
	ProgramName  string        `json:"program_name"`
	CategoryName *string       `json:"category_name"`
	Updates      []StudyUpdate `json:"updates"`
}

// StudyCategoryRequest is the payload for creating or replacing a category.
type StudyCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,max=20"`
	SortOrder   *int    `json:"sort_order"`
}

// StudyProgramRequest is the payload for creating or updating a program.
type StudyProgramRequest struct {
	CategoryID  *int    `json:"category_id" binding:"omitempty,min=1"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	ShortName   *string `json:"short_name" binding:"omitempty,max=50"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// StudyUpdateRequest is the payload for creating or updating a study update.
type StudyUpdateRequest struct {
	ProgramID *int    `json:"program_id" binding:"omitempty,min=1"`
	Content   *string `json:"content" binding:"omitempty,min=1"`
	Semester  *string `json:"semester" binding:"omitempty,max=50"`
	IsActive  *bool   `json:"is_active"`
	SortOrder *int    `json:"sort_order"`
}
