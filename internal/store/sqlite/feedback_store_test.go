package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-service/db"
	"github.com/NomadCrew/feedback-service/internal/store"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func setupStore(t *testing.T, now func() time.Time) store.FeedbackStore {
	t.Helper()
	m, err := db.SetupTestDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return NewFeedbackStore(m, now)
}

func TestFeedbackStore_CreateRoundTrip(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 123456000, time.UTC)
	s := setupStore(t, func() time.Time { return start })
	ctx := context.Background()

	created, err := s.CreateFeedback(ctx, &types.Feedback{
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "Hi ✓ — \"quoted\", commas",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Ada", created.Name)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, "Hi ✓ — \"quoted\", commas", created.Message)
	assert.True(t, start.Equal(created.CreatedAt))

	items, err := s.ListFeedback(ctx, types.FeedbackPage{Limit: 10}, types.NewestFirst)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *created, items[0])
}

func TestFeedbackStore_IDsIncrease(t *testing.T) {
	s := setupStore(t, nil)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		created, err := s.CreateFeedback(ctx, &types.Feedback{Name: "n", Email: "e@x.io", Message: "m"})
		require.NoError(t, err)
		assert.Greater(t, created.ID, last)
		last = created.ID
	}
}

func TestFeedbackStore_NewestFirstWithIDTieBreak(t *testing.T) {
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := setupStore(t, func() time.Time { return same })
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := s.CreateFeedback(ctx, &types.Feedback{Name: fmt.Sprintf("n%d", i), Email: "e@x.io", Message: "m"})
		require.NoError(t, err)
	}

	items, err := s.ListFeedback(ctx, types.FeedbackPage{Limit: 10}, types.NewestFirst)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{items[0].ID, items[1].ID, items[2].ID})
}

func TestFeedbackStore_PagingHasNoGapsOrOverlap(t *testing.T) {
	s := setupStore(t, stepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second))
	ctx := context.Background()

	const total = 7
	for i := 0; i < total; i++ {
		_, err := s.CreateFeedback(ctx, &types.Feedback{Name: "n", Email: "e@x.io", Message: "m"})
		require.NoError(t, err)
	}

	var seen []int64
	offset := 0
	for {
		items, err := s.ListFeedback(ctx, types.FeedbackPage{Limit: 3, Offset: offset}, types.NewestFirst)
		require.NoError(t, err)
		for _, it := range items {
			seen = append(seen, it.ID)
		}
		offset += len(items)
		if len(items) < 3 {
			break
		}
	}

	assert.Equal(t, []int64{7, 6, 5, 4, 3, 2, 1}, seen)
}

func TestFeedbackStore_SortByName(t *testing.T) {
	s := setupStore(t, nil)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := s.CreateFeedback(ctx, &types.Feedback{Name: name, Email: "e@x.io", Message: "m"})
		require.NoError(t, err)
	}

	items, err := s.ListFeedback(ctx, types.FeedbackPage{Limit: 10}, types.FeedbackSort{Field: types.SortByName})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "alice", items[0].Name)
	assert.Equal(t, "bob", items[1].Name)
	assert.Equal(t, "carol", items[2].Name)
}

func TestFeedbackStore_InvalidSort(t *testing.T) {
	s := setupStore(t, nil)

	_, err := s.ListFeedback(context.Background(), types.FeedbackPage{Limit: 10},
		types.FeedbackSort{Field: "message; DROP TABLE feedback"})
	assert.ErrorIs(t, err, store.ErrInvalidSort)
}

func TestFeedbackStore_Count(t *testing.T) {
	s := setupStore(t, nil)
	ctx := context.Background()

	count, err := s.CountFeedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = s.CreateFeedback(ctx, &types.Feedback{Name: "n", Email: "e@x.io", Message: "m"})
	require.NoError(t, err)

	count, err = s.CountFeedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFeedbackStore_MissingTable(t *testing.T) {
	m := db.NewManager(db.Config{Path: t.TempDir() + "/unmigrated.db"})
	t.Cleanup(func() { _ = m.Close() })
	s := NewFeedbackStore(m, nil)

	_, err := s.CreateFeedback(context.Background(), &types.Feedback{Name: "n", Email: "e@x.io", Message: "m"})
	assert.Error(t, err)

	_, err = s.ListFeedback(context.Background(), types.FeedbackPage{Limit: 1}, types.NewestFirst)
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

	for _, in := range []string{"2024-03-04T05:06:07.000000Z", "2024-03-04T05:06:07Z", "2024-03-04 05:06:07"} {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestFormatTimestampIsFixedWidth(t *testing.T) {
	a := FormatTimestamp(time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC))
	b := FormatTimestamp(time.Date(2024, 1, 1, 0, 0, 5, 100000, time.UTC))
	assert.Len(t, a, len(b))
	assert.Less(t, a, b)
}
