// Package jobs runs and tracks background operations, such as full index
// rebuilds, so the HTTP surface can return immediately with a job id.
package jobs

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
)

// Manager handles background job execution and tracking.
type Manager struct {
	mu      sync.RWMutex
	jobs    map[string]*model.Job
	workers chan struct{} // limits concurrent jobs
	wg      sync.WaitGroup
}

// NewManager creates a new job manager with the specified worker count.
func NewManager(maxWorkers int) *Manager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Manager{
		jobs:    make(map[string]*model.Job),
		workers: make(chan struct{}, maxWorkers),
	}
}

// Stop waits for all running jobs to finish.
func (m *Manager) Stop() {
	m.wg.Wait()
	log.Printf("Job manager stopped")
}

// CreateJob registers a new pending job and returns its ID.
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}
	m.jobs[job.ID] = job
	log.Printf("Created job %s (type: %s)", job.ID, job.Type)
	return job.ID
}

// Run executes fn for the given job in a background goroutine, respecting
// the worker limit, and records its outcome.
func (m *Manager) Run(jobID string, fn func() error) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		m.workers <- struct{}{}
		defer func() { <-m.workers }()

		m.setStarted(jobID)
		err := fn()
		m.setFinished(jobID, err)
	}()
}

func (m *Manager) setStarted(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[jobID]; ok {
		now := time.Now()
		job.Status = model.JobStatusRunning
		job.StartedAt = &now
	}
}

func (m *Manager) setFinished(jobID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return
	}
	now := time.Now()
	job.CompletedAt = &now
	if err != nil {
		job.Status = model.JobStatusFailed
		job.Error = err.Error()
		log.Printf("Job %s failed: %v", jobID, err)
		return
	}
	job.Status = model.JobStatusCompleted
	log.Printf("Job %s completed in %v", jobID, now.Sub(job.CreatedAt))
}

// GetJob retrieves a job by ID.
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}

	// Return a copy to avoid race conditions.
	jobCopy := *job
	return &jobCopy, nil
}

// ListJobs returns copies of all tracked jobs, newest first.
func (m *Manager) ListJobs() []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobCopy := *job
		jobs = append(jobs, &jobCopy)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs
}
