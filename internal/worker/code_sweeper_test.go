package worker

import (
	"context"
	"testing"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/metrics"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeSweeperPurgesOnlyStalePersonalCodes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	db := memory.NewDB()
	courses := memory.NewCourseRepository(db)
	codes := memory.NewVerificationCodeRepository(db)

	course := &model.Course{Name: "Buchhaltung", IsActive: true}
	require.NoError(t, courses.Create(ctx, course))

	stale := model.NewPersonalCode("AAAAAA", "a@students.jku.at", course.ID, now.Add(-48*time.Hour))
	require.NoError(t, codes.ReplacePersonal(ctx, stale))
	recent := model.NewPersonalCode("BBBBBB", "b@students.jku.at", course.ID, now.Add(-time.Hour))
	require.NoError(t, codes.ReplacePersonal(ctx, recent))
	live := model.NewPersonalCode("CCCCCC", "c@students.jku.at", course.ID, now.Add(30*time.Minute))
	require.NoError(t, codes.ReplacePersonal(ctx, live))
	issued := model.NewIssuedCode("DDDDDD", nil, 5, now.Add(-72*time.Hour), 1)
	require.NoError(t, codes.CreateIssued(ctx, issued))

	sweeper := NewCodeSweeper(codes, metrics.New(), time.Hour, 24*time.Hour, zerolog.Nop())
	sweeper.now = func() time.Time { return now }

	n, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	remaining := make([]string, 0, 3)
	for _, vc := range db.Codes() {
		remaining = append(remaining, vc.Code)
	}
	assert.ElementsMatch(t, []string{"BBBBBB", "CCCCCC", "DDDDDD"}, remaining)

	n, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCodeSweeperStopsWithContext(t *testing.T) {
	db := memory.NewDB()
	sweeper := NewCodeSweeper(memory.NewVerificationCodeRepository(db), nil, time.Hour, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestCodeSweeperDisabled(t *testing.T) {
	sweeper := NewCodeSweeper(nil, nil, 0, time.Hour, zerolog.Nop())
	// Returns immediately without touching the nil repository.
	sweeper.Start(context.Background())
}
