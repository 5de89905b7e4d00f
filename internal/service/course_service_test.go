package service

import (
	"context"
	"testing"

	"github.com/oeh-wirtschaft/oeh-backend/internal/catalog"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rate stores one rating for courseID through a fresh personal code.
func (e *env) rate(t *testing.T, courseID, effort, difficulty int) {
	t.Helper()
	code := e.requestCode(t, student, courseID)
	_, err := e.verification.SubmitRating(context.Background(), submit(strPtr(student), code, courseID, effort, difficulty))
	require.NoError(t, err)
}

func TestCourseListingWithRatings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	buchhaltung := e.course(t, "KS Buchhaltung", true)
	marketing := e.course(t, "VL Marketing", true)
	e.course(t, "Alte LVA", false)

	e.rate(t, buchhaltung.ID, 2, 4)
	e.rate(t, buchhaltung.ID, 4, 4)

	list, err := e.courseSvc.List(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "KS Buchhaltung", list[0].Name)
	assert.Equal(t, 2, list[0].RatingCount)
	assert.Equal(t, 3.0, *list[0].AvgEffort)
	assert.Zero(t, list[1].RatingCount)
	assert.Nil(t, list[1].AvgTotal)

	found, err := e.courseSvc.List(ctx, "marke", false)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, marketing.ID, found[0].ID)

	all, err := e.courseSvc.List(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	stats, err := e.courseSvc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.CourseStats{Total: 2, Rated: 1}, *stats)

	top, err := e.courseSvc.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, buchhaltung.ID, top[0].ID)
}

func TestGetCourseHidesInactive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inactive := e.course(t, "Alte LVA", false)

	_, err := e.courseSvc.Get(ctx, inactive.ID, false)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	got, err := e.courseSvc.Get(ctx, inactive.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Alte LVA", got.Name)

	_, err = e.courseSvc.Get(ctx, 999, true)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseCRUD(t *testing.T) {
	e := newEnv(t)
	admin := e.operator(t, "admin1", model.RoleAdmin)
	ctx := context.Background()

	c, err := e.courseSvc.Create(ctx, admin, &model.CreateCourseRequest{Name: "  UE Statistik "})
	require.NoError(t, err)
	assert.Equal(t, "UE Statistik", c.Name)
	assert.True(t, c.IsActive)

	_, err = e.courseSvc.Create(ctx, admin, &model.CreateCourseRequest{Name: "UE Statistik"})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := e.courseSvc.Update(ctx, admin, c.ID, &model.UpdateCourseRequest{IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = e.courseSvc.Update(ctx, admin, c.ID, &model.UpdateCourseRequest{Name: strPtr(" ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, e.courseSvc.Delete(ctx, admin, 999), ErrCourseNotFound)
	all, err := e.courseSvc.List(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, e.courseSvc.Delete(ctx, admin, c.ID))
	all, err = e.courseSvc.List(ctx, "", true)
	require.NoError(t, err)
	assert.Empty(t, all)

	var actions []model.ActivityAction
	for _, a := range e.db.Activity() {
		actions = append(actions, a.Action)
	}
	assert.Equal(t, []model.ActivityAction{model.ActionCourseCreate, model.ActionCourseUpdate, model.ActionCourseDelete}, actions)
}

func TestCourseDeleteRemovesRatings(t *testing.T) {
	e := newEnv(t)
	admin := e.operator(t, "admin1", model.RoleAdmin)
	c := e.course(t, "KS Buchhaltung", true)
	e.rate(t, c.ID, 3, 3)

	require.NoError(t, e.courseSvc.Delete(context.Background(), admin, c.ID))
	assert.Empty(t, e.db.Ratings())
}

func TestCourseImport(t *testing.T) {
	e := newEnv(t)
	admin := e.operator(t, "admin1", model.RoleAdmin)
	ctx := context.Background()

	cat, err := catalog.Load()
	require.NoError(t, err)
	svc := NewCourseService(e.courses, cat, e.activity, zerolog.Nop())

	first, err := svc.Import(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, len(cat.Courses), first.Imported)
	assert.Zero(t, first.Skipped)

	second, err := svc.Import(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, second.Imported)
	assert.Equal(t, len(cat.Courses), second.Skipped)

	_, err = e.courseSvc.Import(ctx, admin)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
