package jobs

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu    sync.Mutex
	calls []time.Duration
	n     int
}

func (f *fakePurger) PurgeStale(olderThan time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, olderThan)
	return f.n
}

func (f *fakePurger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRunOncePassesTTL(t *testing.T) {
	p := &fakePurger{n: 2}
	j := NewDraftPurgeJob(p, 24*time.Hour, "", zerolog.Nop())

	j.RunOnce()

	assert.Equal(t, []time.Duration{24 * time.Hour}, p.calls)
	assert.Equal(t, DefaultPurgeSchedule, j.schedule)
}

func TestStartRunsOnSchedule(t *testing.T) {
	p := &fakePurger{}
	j := NewDraftPurgeJob(p, time.Hour, "@every 1s", zerolog.Nop())

	require.NoError(t, j.Start())
	defer j.Stop()

	require.Eventually(t, func() bool { return p.callCount() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	j := NewDraftPurgeJob(&fakePurger{}, time.Hour, "not a schedule", zerolog.Nop())

	require.Error(t, j.Start())
}
