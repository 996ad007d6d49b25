package repositories

import (
	"fmt"

	"github.com/desertthunder/champr/internal/models"
)

// JobRecorder implements tasks.JobRecorder using ApplyJobRepository.
//
// Updates for jobs that were never stored are ignored so a failed insert does
// not turn every later progress write into an error.
type JobRecorder struct {
	repo *ApplyJobRepository
}

// NewJobRecorder creates a new JobRecorder with the given repository
func NewJobRecorder(repo *ApplyJobRepository) *JobRecorder {
	return &JobRecorder{repo: repo}
}

// Create stores a new job.
func (a *JobRecorder) Create(job *models.ApplyJob) error {
	if err := a.repo.Create(job); err != nil {
		return fmt.Errorf("failed to record apply job: %w", err)
	}
	return nil
}

// Update stores the job's progress.
func (a *JobRecorder) Update(job *models.ApplyJob) error {
	if job.ID() == "" {
		return nil
	}
	return a.repo.Update(job)
}
