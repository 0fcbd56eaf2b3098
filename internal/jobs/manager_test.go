package jobs

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
)

func waitForStatus(t *testing.T, m *Manager, jobID string, want model.JobStatus) *model.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := m.GetJob(jobID)
		require.NoError(t, err)
		if job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
	return nil
}

func TestJobLifecycle(t *testing.T) {
	m := NewManager(1)
	defer m.Stop()

	jobID := m.CreateJob(model.JobTypeRebuildIndex, map[string]string{"corpus": "test.json"})

	job, err := m.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, model.JobTypeRebuildIndex, job.Type)
	assert.Equal(t, "test.json", job.Metadata["corpus"])
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)

	m.Run(jobID, func() error { return nil })

	job = waitForStatus(t, m, jobID, model.JobStatusCompleted)
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.Error)
}

func TestJobFailure(t *testing.T) {
	m := NewManager(1)
	defer m.Stop()

	jobID := m.CreateJob(model.JobTypeRebuildIndex, nil)
	m.Run(jobID, func() error { return fmt.Errorf("corpus file vanished") })

	job := waitForStatus(t, m, jobID, model.JobStatusFailed)
	assert.Equal(t, "corpus file vanished", job.Error)
	assert.NotNil(t, job.CompletedAt)
}

func TestGetJobNotFound(t *testing.T) {
	m := NewManager(1)

	_, err := m.GetJob("no-such-job")
	assert.ErrorIs(t, err, errors.ErrJobNotFound)

	var notFound *errors.JobNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no-such-job", notFound.JobID)
}

func TestListJobsNewestFirst(t *testing.T) {
	m := NewManager(1)

	first := m.CreateJob(model.JobTypeRebuildIndex, nil)
	time.Sleep(2 * time.Millisecond)
	second := m.CreateJob(model.JobTypeWarmCache, nil)

	jobs := m.ListJobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, second, jobs[0].ID)
	assert.Equal(t, first, jobs[1].ID)
}

func TestWorkerLimit(t *testing.T) {
	m := NewManager(1)
	defer m.Stop()

	var running int32
	var maxRunning int32
	block := make(chan struct{})

	for i := 0; i < 3; i++ {
		jobID := m.CreateJob(model.JobTypeRebuildIndex, nil)
		m.Run(jobID, func() error {
			cur := atomic.AddInt32(&running, 1)
			for {
				prev := atomic.LoadInt32(&maxRunning)
				if cur <= prev || atomic.CompareAndSwapInt32(&maxRunning, prev, cur) {
					break
				}
			}
			<-block
			atomic.AddInt32(&running, -1)
			return nil
		})
	}

	time.Sleep(20 * time.Millisecond)
	close(block)
	m.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning), "a single worker slot serializes jobs")
}

func TestGetJobReturnsCopy(t *testing.T) {
	m := NewManager(1)

	jobID := m.CreateJob(model.JobTypeRebuildIndex, nil)

	job, err := m.GetJob(jobID)
	require.NoError(t, err)
	job.Status = model.JobStatusFailed

	again, err := m.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, again.Status, "callers mutate a copy, not manager state")
}
