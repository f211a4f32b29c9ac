package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func countingJob(runs *int32) Job {
	return Job{Name: "count", Run: func(ctx context.Context) error {
		atomic.AddInt32(runs, 1)
		return nil
	}}
}

func TestRunOnceContinuesAfterFailure(t *testing.T) {
	var ran []string
	s, err := NewScheduler("", quietLogger(),
		Job{Name: "first", Run: func(ctx context.Context) error {
			ran = append(ran, "first")
			return errors.New("boom")
		}},
		Job{Name: "second", Run: func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		}},
	)
	require.NoError(t, err)

	assert.True(t, s.RunOnce(context.Background()))
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestInvalidSchedule(t *testing.T) {
	_, err := NewScheduler("every now and then", quietLogger())
	assert.Error(t, err)
}

func TestStartupRunWithoutSchedule(t *testing.T) {
	var runs int32
	s, err := NewScheduler("", quietLogger(), countingJob(&runs))
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) == 1
	}, time.Second, 5*time.Millisecond)
	s.Stop()

	// No schedule means no further runs
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestStopBeforeStartupRunSkipsJobs(t *testing.T) {
	var runs int32
	s, err := NewScheduler("", quietLogger(), countingJob(&runs))
	require.NoError(t, err)

	s.Stop()
	assert.True(t, s.RunOnce(s.ctx))
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

func TestScheduledRuns(t *testing.T) {
	var runs int32
	s, err := NewScheduler("@every 1s", quietLogger(), countingJob(&runs))
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	// One startup run plus at least one tick
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestOverlappingRunIsSkipped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s, err := NewScheduler("", quietLogger(), Job{Name: "block", Run: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}})
	require.NoError(t, err)

	s.Start()
	<-started

	assert.False(t, s.RunOnce(context.Background()))

	close(release)
	s.Stop()
}

func TestStopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	s, err := NewScheduler("@every 1h", quietLogger(), Job{Name: "block", Run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}})
	require.NoError(t, err)

	s.Start()
	<-started

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}

	// Stop is idempotent
	s.Stop()
}
