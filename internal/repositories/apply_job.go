package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/shared"
)

const applyJobColumns = `
	id, sequence, sources, champions, alternate_region, install_dir,
	status, files_written, champions_failed, error_message, started_at,
	completed_at, created_at, updated_at, deleted_at
`

var _ models.Repository[*models.ApplyJob] = (*ApplyJobRepository)(nil)

// ApplyJobRepository stores bulk apply history.
type ApplyJobRepository struct {
	db *sql.DB
}

// NewApplyJobRepository creates a new ApplyJobRepository with the given database connection
func NewApplyJobRepository(db *sql.DB) *ApplyJobRepository {
	return &ApplyJobRepository{db: db}
}

// Create inserts a new apply job with a generated ID and sequence
func (r *ApplyJobRepository) Create(job *models.ApplyJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "apply_jobs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO apply_jobs (
			id, sequence, sources, champions, alternate_region, install_dir,
			status, files_written, champions_failed, error_message, started_at,
			completed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		strings.Join(job.Sources(), ","),
		strings.Join(job.Champions(), ","),
		job.AlternateRegion(),
		job.InstallDir(),
		string(job.Status()),
		job.FilesWritten(),
		job.ChampionsFailed(),
		nullString(job.ErrorMessage()),
		job.StartedAt(),
		job.CompletedAt(),
		job.CreatedAt(),
		job.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert apply job: %w", err)
	}

	job.SetID(id)
	job.SetSequence(sequence)
	return nil
}

// Get retrieves an apply job by ID, excluding soft-deleted jobs
func (r *ApplyJobRepository) Get(id string) (*models.ApplyJob, error) {
	query := "SELECT" + applyJobColumns + "FROM apply_jobs WHERE id = ? AND deleted_at IS NULL"

	job, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("apply job not found: %s", id)
	}
	return job, err
}

// Update writes the job's progress fields
func (r *ApplyJobRepository) Update(job *models.ApplyJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	job.SetUpdatedAt(now)

	query := `
		UPDATE apply_jobs
		SET status = ?, files_written = ?, champions_failed = ?, error_message = ?,
			started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(job.Status()),
		job.FilesWritten(),
		job.ChampionsFailed(),
		nullString(job.ErrorMessage()),
		job.StartedAt(),
		job.CompletedAt(),
		now,
		job.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update apply job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("apply job not found or already deleted: %s", job.ID())
	}

	return nil
}

// Delete soft-deletes an apply job by ID
func (r *ApplyJobRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE apply_jobs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete apply job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("apply job not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves apply jobs newest first. Supported criteria: "status"
// (string), "source" (string, matches any listed source) and "limit" (int).
func (r *ApplyJobRepository) List(criteria map[string]any) ([]*models.ApplyJob, error) {
	query := "SELECT" + applyJobColumns + "FROM apply_jobs WHERE deleted_at IS NULL"
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND (',' || sources || ',') LIKE ?"
		args = append(args, "%,"+source+",%")
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query apply jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ApplyJob
	for rows.Next() {
		job, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return jobs, nil
}

func (r *ApplyJobRepository) scan(row scanner) (*models.ApplyJob, error) {
	var (
		id              string
		sequence        int
		sources         string
		champions       string
		alternateRegion bool
		installDir      string
		status          string
		filesWritten    int
		championsFailed int
		errorMessage    sql.NullString
		startedAt       sql.NullTime
		completedAt     sql.NullTime
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := row.Scan(
		&id, &sequence, &sources, &champions, &alternateRegion, &installDir,
		&status, &filesWritten, &championsFailed, &errorMessage, &startedAt,
		&completedAt, &createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan apply job: %w", err)
	}

	job := models.NewApplyJob(sequence, models.MultiApplyRequest{
		Sources:           splitList(sources),
		Aliases:           splitList(champions),
		InstallDir:        installDir,
		IsAlternateRegion: alternateRegion,
	})
	job.SetID(id)
	job.SetStatus(models.ApplyJobStatus(status))
	job.SetFilesWritten(filesWritten)
	job.SetChampionsFailed(championsFailed)
	job.SetCreatedAt(createdAt)
	job.SetUpdatedAt(updatedAt)

	if errorMessage.Valid {
		job.SetErrorMessage(errorMessage.String)
	}
	if startedAt.Valid {
		job.SetStartedAt(&startedAt.Time)
	}
	if completedAt.Valid {
		job.SetCompletedAt(&completedAt.Time)
	}
	if deletedAt.Valid {
		job.SetDeletedAt(&deletedAt.Time)
	}

	return job, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
