// Package jobs runs analyses in the background and tracks their state.
// Job state lives in explicit Job objects owned by the Manager and is
// only mutated through thread-safe setters; workers receive the Job by
// handle and never touch shared maps directly.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/avolkov/locstat/internal/model"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job tracks one background analysis.
type Job struct {
	id        string
	createdAt time.Time

	mu         sync.Mutex
	status     Status
	progress   int
	message    string
	finishedAt time.Time
	reports    []*model.Report
	failure    string
}

// ID returns the job identifier.
func (j *Job) ID() string { return j.id }

// UpdateProgress records intermediate progress (0-100) with a message.
func (j *Job) UpdateProgress(progress int, message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == StatusQueued {
		j.status = StatusRunning
	}
	j.progress = progress
	j.message = message
}

// Complete marks the job finished with its results.
func (j *Job) Complete(reports []*model.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusCompleted
	j.progress = 100
	j.message = "analysis complete"
	j.reports = reports
	j.finishedAt = time.Now()
}

// Fail marks the job failed.
func (j *Job) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusFailed
	j.message = "analysis failed"
	j.failure = err.Error()
	j.finishedAt = time.Now()
}

// View is an immutable snapshot of a job for API responses.
type View struct {
	ID         string    `json:"id"`
	Status     Status    `json:"status"`
	Progress   int       `json:"progress"`
	Message    string    `json:"message"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Snapshot returns a consistent view of the job state.
func (j *Job) Snapshot() View {
	j.mu.Lock()
	defer j.mu.Unlock()
	return View{
		ID:         j.id,
		Status:     j.status,
		Progress:   j.progress,
		Message:    j.message,
		Error:      j.failure,
		CreatedAt:  j.createdAt,
		FinishedAt: j.finishedAt,
	}
}

// Reports returns the results of a completed job, or false otherwise.
func (j *Job) Reports() ([]*model.Report, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusCompleted {
		return nil, false
	}
	return j.reports, true
}

// Runner is the work a job performs. It reports progress through the job
// handle and returns the analysis results.
type Runner func(ctx context.Context, job *Job) ([]*model.Report, error)

// Manager schedules background jobs on a bounded pool.
type Manager struct {
	jobs *abstract.SafeMap[string, *Job]
	pool *ants.Pool
	log  logze.Logger

	mu    sync.Mutex
	order []string
}

// NewManager creates a manager running at most workers jobs at once.
func NewManager(workers int) (*Manager, error) {
	if workers <= 0 {
		workers = 2
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create job pool")
	}
	return &Manager{
		jobs: abstract.NewSafeMap(map[string]*Job{}),
		pool: pool,
		log:  logze.With("component", "jobs"),
	}, nil
}

// Submit queues a new job. The runner starts as soon as a worker is free.
func (m *Manager) Submit(ctx context.Context, run Runner) (*Job, error) {
	job := &Job{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		status:    StatusQueued,
		message:   "queued",
	}
	m.jobs.Set(job.id, job)

	m.mu.Lock()
	m.order = append(m.order, job.id)
	m.mu.Unlock()

	err := m.pool.Submit(func() {
		log := m.log.WithFields("job_id", job.id)
		job.UpdateProgress(0, "starting analysis")

		reports, err := run(ctx, job)
		if err != nil {
			log.Error("job failed", "error", err)
			job.Fail(err)
			return
		}
		job.Complete(reports)
		log.Info("job completed", "reports", len(reports))
	})
	if err != nil {
		job.Fail(errm.Wrap(err, "failed to schedule job"))
		return job, errm.Wrap(err, "failed to schedule job")
	}

	return job, nil
}

// Get returns a job by id.
func (m *Manager) Get(id string) (*Job, bool) {
	job := m.jobs.Get(id)
	return job, job != nil
}

// List returns snapshots of all known jobs, oldest first.
func (m *Manager) List() []View {
	m.mu.Lock()
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	m.mu.Unlock()

	views := make([]View, 0, len(ids))
	for _, id := range ids {
		if job := m.jobs.Get(id); job != nil {
			views = append(views, job.Snapshot())
		}
	}
	return views
}

// Close stops accepting jobs and releases the pool.
func (m *Manager) Close(ctx context.Context) error {
	m.pool.Release()
	return nil
}
