// ABOUTME: Tests for the retention pruner
// ABOUTME: Uses a stub store to verify cutoff calculation and scheduling lifecycle

package retention

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/scribe/internal/config"
)

type stubStore struct {
	cutoffs []time.Time
	deleted int
}

func (s *stubStore) DeleteMessagesOlderThan(_ context.Context, cutoff time.Time) int {
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.deleted
}

func TestPruner_RunOnce(t *testing.T) {
	store := &stubStore{deleted: 7}
	p := New(store, config.RetentionConfig{
		Enabled:  true,
		MaxAge:   720 * time.Hour,
		Schedule: "0 3 * * *",
	}, slog.Default())

	before := time.Now().Add(-720 * time.Hour)
	got := p.RunOnce(context.Background())
	after := time.Now().Add(-720 * time.Hour)

	assert.Equal(t, 7, got)
	require.Len(t, store.cutoffs, 1)

	cutoff := store.cutoffs[0]
	assert.False(t, cutoff.Before(before))
	assert.False(t, cutoff.After(after))
}

func TestPruner_StartStop(t *testing.T) {
	store := &stubStore{}
	p := New(store, config.RetentionConfig{
		Enabled:  true,
		MaxAge:   time.Hour,
		Schedule: "0 3 * * *",
	}, slog.Default())

	require.NoError(t, p.Start())
	p.Stop()

	// The schedule never fired inside this test window
	assert.Empty(t, store.cutoffs)
}

func TestPruner_StartInvalidSchedule(t *testing.T) {
	p := New(&stubStore{}, config.RetentionConfig{
		Enabled:  true,
		MaxAge:   time.Hour,
		Schedule: "not a cron expression",
	}, slog.Default())

	assert.Error(t, p.Start())
}

func TestPruner_StopWithoutStart(t *testing.T) {
	p := New(&stubStore{}, config.RetentionConfig{}, slog.Default())
	p.Stop() // must not panic
}
