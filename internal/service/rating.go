package service

import (
	"math"
	"sort"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

const defaultTopRatedLimit = 10

var tierColors = [5]string{"green", "lime", "yellow", "orange", "red"}

var (
	effortLabels     = [5]string{"Niedrig", "Eher niedrig", "Durchschnittlich", "Eher hoch", "Sehr hoch"}
	difficultyLabels = [5]string{"Gut verständlich", "Verständlich", "Anspruchsvoll", "Sehr anspruchsvoll", "Extrem anspruchsvoll"}
	totalLabels      = [5]string{"Sehr unkritisch", "Unkritisch", "Ausgewogen", "Fordernd", "Sehr fordernd"}
)

// tier maps an unrounded average onto the five-step scale.
func tier(avg float64) int {
	switch {
	case avg < 1.5:
		return 0
	case avg < 2.5:
		return 1
	case avg < 3.5:
		return 2
	case avg < 4.5:
		return 3
	}
	return 4
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr[T any](v T) *T { return &v }

// ComputeCourseRating aggregates scores into display values. With no scores
// every average and label stays nil.
func ComputeCourseRating(scores []model.Score) model.CourseRating {
	r := model.CourseRating{RatingCount: len(scores)}
	if len(scores) == 0 {
		return r
	}

	var sumEffort, sumDifficulty int
	for _, s := range scores {
		sumEffort += s.Effort
		sumDifficulty += s.Difficulty
	}
	n := float64(len(scores))
	effort := float64(sumEffort) / n
	difficulty := float64(sumDifficulty) / n
	total := (effort + difficulty) / 2

	te, td, tt := tier(effort), tier(difficulty), tier(total)

	r.AvgEffort = ptr(round2(effort))
	r.AvgDifficulty = ptr(round2(difficulty))
	r.AvgTotal = ptr(round2(total))
	r.EffortText = ptr(effortLabels[te])
	r.EffortColor = ptr(tierColors[te])
	r.DifficultyText = ptr(difficultyLabels[td])
	r.DifficultyColor = ptr(tierColors[td])
	r.TotalText = ptr(totalLabels[tt])
	r.TotalColor = ptr(tierColors[tt])
	return r.WithRawTotal(total)
}

// TopRated returns the rated courses with the lowest overall score, ties
// broken by the larger number of ratings. limit <= 0 means 10.
func TopRated(courses []model.CourseWithRating, limit int) []model.CourseWithRating {
	if limit <= 0 {
		limit = defaultTopRatedLimit
	}

	rated := make([]model.CourseWithRating, 0, len(courses))
	for _, c := range courses {
		if c.RatingCount > 0 {
			rated = append(rated, c)
		}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		a, b := rated[i], rated[j]
		if a.RawTotal() != b.RawTotal() {
			return a.RawTotal() < b.RawTotal()
		}
		return a.RatingCount > b.RatingCount
	})

	if len(rated) > limit {
		rated = rated[:limit]
	}
	return rated
}
