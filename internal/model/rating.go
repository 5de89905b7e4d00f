package model

import "time"

// Rating is one anonymous course rating. It carries no requester identity.
type Rating struct {
	ID         int       `json:"id"`
	CourseID   int       `json:"course_id"`
	Effort     int       `json:"effort"`
	Difficulty int       `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Score is the pair of sub-scores the aggregator consumes.
type Score struct {
	Effort     int
	Difficulty int
}

// CourseRating is the derived, display-ready aggregate for a course.
// All pointer fields are nil when the course has no ratings.
type CourseRating struct {
	RatingCount     int      `json:"rating_count"`
	AvgEffort       *float64 `json:"avg_effort"`
	AvgDifficulty   *float64 `json:"avg_difficulty"`
	AvgTotal        *float64 `json:"avg_total"`
	EffortText      *string  `json:"effort_text"`
	EffortColor     *string  `json:"effort_color"`
	DifficultyText  *string  `json:"difficulty_text"`
	DifficultyColor *string  `json:"difficulty_color"`
	TotalText       *string  `json:"total_text"`
	TotalColor      *string  `json:"total_color"`

	// rawTotal keeps the unrounded overall average for ordering.
	rawTotal float64
}

// RawTotal returns the unrounded overall average (0 when unrated).
func (r CourseRating) RawTotal() float64 { return r.rawTotal }

// WithRawTotal returns a copy carrying the unrounded overall average.
func (r CourseRating) WithRawTotal(v float64) CourseRating {
	r.rawTotal = v
	return r
}
