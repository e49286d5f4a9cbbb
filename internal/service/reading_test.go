package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
)

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	first, err := env.reading.Start(ctx, "usr_1")
	require.NoError(t, err)
	require.True(t, first.IsActive())

	second, err := env.reading.Start(ctx, "usr_1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "starting while running returns the open session")
}

func TestStopRecordsDuration(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	env.reading.now = func() time.Time { return base }

	started, err := env.reading.Start(ctx, "usr_1")
	require.NoError(t, err)

	env.reading.now = func() time.Time { return base.Add(25 * time.Minute) }
	finished, err := env.reading.Stop(ctx, "usr_1")
	require.NoError(t, err)

	assert.Equal(t, started.ID, finished.ID)
	assert.False(t, finished.IsActive())
	assert.Equal(t, (25 * time.Minute).Milliseconds(), finished.DurationMs)

	active, err := env.reading.Active(ctx, "usr_1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestStopWithoutRunningTimer(t *testing.T) {
	env := setupTest(t)

	_, err := env.reading.Stop(context.Background(), "usr_1")
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeNotFound, derr.Code)
}

func TestStatsAggregatesWeek(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// 30 minutes today, 15 minutes two days ago, 10 minutes eight days ago
	// (outside the window).
	for _, span := range []struct {
		start    time.Time
		duration time.Duration
	}{
		{base, 30 * time.Minute},
		{base.AddDate(0, 0, -2), 15 * time.Minute},
		{base.AddDate(0, 0, -8), 10 * time.Minute},
	} {
		env.reading.now = func() time.Time { return span.start }
		_, err := env.reading.Start(ctx, "usr_1")
		require.NoError(t, err)

		end := span.start.Add(span.duration)
		env.reading.now = func() time.Time { return end }
		_, err = env.reading.Stop(ctx, "usr_1")
		require.NoError(t, err)
	}

	env.reading.now = func() time.Time { return base }
	stats, err := env.reading.Stats(ctx, "usr_1")
	require.NoError(t, err)

	assert.Equal(t, (30 * time.Minute).Milliseconds(), stats.TodayMs)
	assert.Equal(t, (45 * time.Minute).Milliseconds(), stats.WeekMs)
	require.Len(t, stats.WeekDays, 7)
	assert.Equal(t, (15 * time.Minute).Milliseconds(), stats.WeekDays[4].DurationMs)
}

func TestStatsIgnoreOtherUsers(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	env.reading.now = func() time.Time { return base }
	_, err := env.reading.Start(ctx, "usr_2")
	require.NoError(t, err)
	env.reading.now = func() time.Time { return base.Add(time.Hour) }
	_, err = env.reading.Stop(ctx, "usr_2")
	require.NoError(t, err)

	stats, err := env.reading.Stats(ctx, "usr_1")
	require.NoError(t, err)
	assert.Zero(t, stats.WeekMs)
}

func TestHistoryNewestFirst(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	for i := range 3 {
		start := base.Add(time.Duration(i) * time.Hour)
		env.reading.now = func() time.Time { return start }
		_, err := env.reading.Start(ctx, "usr_1")
		require.NoError(t, err)

		end := start.Add(10 * time.Minute)
		env.reading.now = func() time.Time { return end }
		_, err = env.reading.Stop(ctx, "usr_1")
		require.NoError(t, err)
	}

	sessions, err := env.reading.History(ctx, "usr_1", base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.True(t, sessions[0].StartedAt.After(sessions[1].StartedAt))
}
