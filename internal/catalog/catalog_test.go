package catalog

import (
	"context"
	"testing"

	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Wintersemester 2025/26", c.Semester)
	assert.Len(t, c.Categories, 4)
	assert.Equal(t, "bachelor", c.Categories[0].Name)
	assert.NotEmpty(t, c.Courses)
	assert.Contains(t, c.Courses, "KS Buchhaltung nach UGB")

	seen := make(map[string]bool, len(c.Courses))
	for _, name := range c.Courses {
		assert.False(t, seen[name], "duplicate course %q", name)
		seen[name] = true
	}
}

func TestSeedCoursesOnlyIntoEmptyTable(t *testing.T) {
	ctx := context.Background()
	c, err := Load()
	require.NoError(t, err)

	courses := memory.NewCourseRepository(memory.NewDB())
	inserted, err := c.SeedCourses(ctx, courses)
	require.NoError(t, err)
	assert.Equal(t, len(c.Courses), inserted)

	again, err := c.SeedCourses(ctx, courses)
	require.NoError(t, err)
	assert.Zero(t, again)

	list, err := courses.List(ctx, repository.CourseFilter{})
	require.NoError(t, err)
	assert.Len(t, list, len(c.Courses))
}

func TestImportCoursesSkipsExisting(t *testing.T) {
	ctx := context.Background()
	c, err := Load()
	require.NoError(t, err)

	courses := memory.NewCourseRepository(memory.NewDB())
	_, err = courses.CreateIfMissing(ctx, c.Courses[0])
	require.NoError(t, err)

	imported, skipped, err := c.ImportCourses(ctx, courses)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, len(c.Courses)-1, imported)
}
