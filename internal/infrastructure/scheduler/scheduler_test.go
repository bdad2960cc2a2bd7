package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJob counts its runs.
type stubJob struct {
	name string
	err  error
	runs int
}

func (j *stubJob) Name() string                { return j.name }
func (j *stubJob) Description() string         { return "stub job" }
func (j *stubJob) Run(_ context.Context) error { j.runs++; return j.err }

func TestRegister(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})

	require.NoError(t, s.Register(&stubJob{name: "rebuild"}, Every(time.Minute)))

	// Duplicates and nil inputs are refused.
	assert.ErrorIs(t, s.Register(&stubJob{name: "rebuild"}, Every(time.Minute)), ErrJobAlreadyExists)
	assert.ErrorIs(t, s.Register(nil, Every(time.Minute)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&stubJob{name: "other"}, nil), ErrNilSchedule)
}

func TestRunNow(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	job := &stubJob{name: "rebuild"}
	require.NoError(t, s.Register(job, Every(time.Hour)))

	result, err := s.RunNow(context.Background(), "rebuild")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "rebuild", result.JobName)
	assert.Equal(t, 1, job.runs)
}

func TestRunNow_JobFailure(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	jobErr := errors.New("totals unavailable")
	require.NoError(t, s.Register(&stubJob{name: "rebuild", err: jobErr}, Every(time.Hour)))

	result, err := s.RunNow(context.Background(), "rebuild")
	assert.ErrorIs(t, err, jobErr)
	require.NotNil(t, result)
	assert.False(t, result.Success)
}

func TestRunNow_UnknownJob(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})

	_, err := s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestEnableDisableJob(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	require.NoError(t, s.Register(&stubJob{name: "rebuild"}, Every(time.Hour)))

	require.NoError(t, s.DisableJob("rebuild"))
	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].Enabled)

	require.NoError(t, s.EnableJob("rebuild"))
	assert.True(t, s.ListJobs()[0].Enabled)

	assert.ErrorIs(t, s.DisableJob("missing"), ErrJobNotFound)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	require.NoError(t, s.Register(&stubJob{name: "rebuild"}, Every(time.Hour)))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}

func TestMetrics_RecordedOnManualRun(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	require.NoError(t, s.Register(&stubJob{name: "rebuild"}, Every(time.Hour)))

	_, err := s.RunNow(context.Background(), "rebuild")
	require.NoError(t, err)

	snap := s.GetMetrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalExecutions)
	assert.Equal(t, int64(1), snap.TotalSuccesses)
}
