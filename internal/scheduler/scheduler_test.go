package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recordingInvalidator) Invalidate(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reasons)
}

func TestScheduleCacheRefresh(t *testing.T) {
	target := &recordingInvalidator{}
	s := NewScheduler(target, nil)

	require.Error(t, s.Start(), "starting without jobs must fail")
	require.NoError(t, s.ScheduleCacheRefresh("@every 15m"))
	assert.Len(t, s.Entries(), 1)
	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), s.GetNextRun(), 5*time.Second)
	assert.Error(t, s.ScheduleCacheRefresh("@every 1h"))
	assert.Error(t, s.Start())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop())
}

func TestScheduleCacheRefreshRejectsBadExpression(t *testing.T) {
	s := NewScheduler(&recordingInvalidator{}, nil)
	assert.Error(t, s.ScheduleCacheRefresh("every so often"))

	assert.Error(t, NewScheduler(nil, nil).ScheduleCacheRefresh("@every 1m"))
}

func TestRefreshJobInvalidatesCache(t *testing.T) {
	target := &recordingInvalidator{}
	s := NewScheduler(target, nil)

	s.refreshJob()
	assert.Equal(t, []string{"scheduled refresh"}, target.reasons)
}

func TestSchedulerRunsJobs(t *testing.T) {
	target := &recordingInvalidator{}
	s := NewScheduler(target, nil)
	require.NoError(t, s.ScheduleCacheRefresh("@every 1s"))
	require.NoError(t, s.Start())
	defer func() { _ = s.Stop() }()

	assert.Eventually(t, func() bool { return target.count() > 0 }, 3*time.Second, 50*time.Millisecond)
}
