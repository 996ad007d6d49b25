package models

import (
	"fmt"
	"strings"
	"time"
)

// ApplyJobStatus is the lifecycle state of an [ApplyJob].
type ApplyJobStatus string

const (
	ApplyJobPending   ApplyJobStatus = "pending"
	ApplyJobRunning   ApplyJobStatus = "running"
	ApplyJobCompleted ApplyJobStatus = "completed"
	ApplyJobPartial   ApplyJobStatus = "partial"
	ApplyJobFailed    ApplyJobStatus = "failed"
)

// Valid reports whether s is a known status.
func (s ApplyJobStatus) Valid() bool {
	switch s {
	case ApplyJobPending, ApplyJobRunning, ApplyJobCompleted, ApplyJobPartial, ApplyJobFailed:
		return true
	}
	return false
}

// ApplyJob records one bulk apply of item sets to the game client.
type ApplyJob struct {
	id              string
	sequence        int
	sources         []string
	champions       []string
	alternateRegion bool
	installDir      string
	status          ApplyJobStatus
	filesWritten    int
	championsFailed int
	errorMessage    string
	startedAt       *time.Time
	completedAt     *time.Time
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewApplyJob creates a pending job for req.
func NewApplyJob(sequence int, req MultiApplyRequest) *ApplyJob {
	now := time.Now()
	return &ApplyJob{
		sequence:        sequence,
		sources:         append([]string(nil), req.Sources...),
		champions:       append([]string(nil), req.Aliases...),
		alternateRegion: req.IsAlternateRegion,
		installDir:      req.InstallDir,
		status:          ApplyJobPending,
		createdAt:       now,
		updatedAt:       now,
	}
}

func (j *ApplyJob) ID() string                  { return j.id }
func (j *ApplyJob) Sequence() int               { return j.sequence }
func (j *ApplyJob) Sources() []string           { return j.sources }
func (j *ApplyJob) Champions() []string         { return j.champions }
func (j *ApplyJob) AlternateRegion() bool       { return j.alternateRegion }
func (j *ApplyJob) InstallDir() string          { return j.installDir }
func (j *ApplyJob) Status() ApplyJobStatus      { return j.status }
func (j *ApplyJob) FilesWritten() int           { return j.filesWritten }
func (j *ApplyJob) ChampionsFailed() int        { return j.championsFailed }
func (j *ApplyJob) ErrorMessage() string        { return j.errorMessage }
func (j *ApplyJob) StartedAt() *time.Time       { return j.startedAt }
func (j *ApplyJob) CompletedAt() *time.Time     { return j.completedAt }
func (j *ApplyJob) CreatedAt() time.Time        { return j.createdAt }
func (j *ApplyJob) UpdatedAt() time.Time        { return j.updatedAt }
func (j *ApplyJob) DeletedAt() *time.Time       { return j.deletedAt }
func (j *ApplyJob) SetID(id string)             { j.id = id }
func (j *ApplyJob) SetSequence(seq int)         { j.sequence = seq }
func (j *ApplyJob) SetStatus(s ApplyJobStatus)  { j.status = s }
func (j *ApplyJob) SetFilesWritten(n int)       { j.filesWritten = n }
func (j *ApplyJob) SetChampionsFailed(n int)    { j.championsFailed = n }
func (j *ApplyJob) SetErrorMessage(m string)    { j.errorMessage = m }
func (j *ApplyJob) SetStartedAt(t *time.Time)   { j.startedAt = t }
func (j *ApplyJob) SetCompletedAt(t *time.Time) { j.completedAt = t }
func (j *ApplyJob) SetCreatedAt(t time.Time)    { j.createdAt = t }
func (j *ApplyJob) SetUpdatedAt(t time.Time)    { j.updatedAt = t }
func (j *ApplyJob) SetDeletedAt(t *time.Time)   { j.deletedAt = t }

// Start marks the job running.
func (j *ApplyJob) Start() {
	now := time.Now()
	j.status = ApplyJobRunning
	j.startedAt = &now
}

// Finish marks the job done, deriving the final status from the counters.
func (j *ApplyJob) Finish(err error) {
	now := time.Now()
	j.completedAt = &now
	switch {
	case err != nil:
		j.status = ApplyJobFailed
		j.errorMessage = err.Error()
	case j.championsFailed > 0:
		j.status = ApplyJobPartial
	default:
		j.status = ApplyJobCompleted
	}
}

// Duration returns how long the job ran, or zero if it has not finished.
func (j *ApplyJob) Duration() time.Duration {
	if j.startedAt == nil || j.completedAt == nil {
		return 0
	}
	return j.completedAt.Sub(*j.startedAt)
}

// Validate checks required fields.
func (j *ApplyJob) Validate() error {
	if len(j.sources) == 0 {
		return fmt.Errorf("apply job requires at least one source")
	}
	for _, s := range j.sources {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("apply job source cannot be empty")
		}
	}
	if j.installDir == "" {
		return fmt.Errorf("apply job install dir is required")
	}
	if !j.status.Valid() {
		return fmt.Errorf("invalid apply job status %q", j.status)
	}
	if j.filesWritten < 0 || j.championsFailed < 0 {
		return fmt.Errorf("apply job counters cannot be negative")
	}
	return nil
}
