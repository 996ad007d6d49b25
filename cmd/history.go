package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/champr/internal/formatter"
	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/repositories"
	"github.com/desertthunder/champr/internal/shared"
)

// historyEntry is the JSON form of an apply job.
type historyEntry struct {
	ID           string     `json:"id"`
	Sequence     int        `json:"sequence"`
	Status       string     `json:"status"`
	Sources      []string   `json:"sources"`
	Champions    []string   `json:"champions,omitempty"`
	FilesWritten int        `json:"filesWritten"`
	Failed       int        `json:"failed"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// History lists recorded bulk apply jobs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	status := cmd.String("status")
	if status != "" && !models.ApplyJobStatus(status).Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidFlag, status)
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	jobs, err := repositories.NewApplyJobRepository(db).List(map[string]any{
		"status": status,
		"source": cmd.String("source"),
		"limit":  cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if !cmd.Bool("json") {
		return r.writeRaw(formatter.HistoryToText(jobs, time.Now()))
	}

	entries := make([]historyEntry, 0, len(jobs))
	for _, j := range jobs {
		entries = append(entries, historyEntry{
			ID:           j.ID(),
			Sequence:     j.Sequence(),
			Status:       string(j.Status()),
			Sources:      j.Sources(),
			Champions:    j.Champions(),
			FilesWritten: j.FilesWritten(),
			Failed:       j.ChampionsFailed(),
			Error:        j.ErrorMessage(),
			CreatedAt:    j.CreatedAt(),
			CompletedAt:  j.CompletedAt(),
		})
	}
	return r.writeJSON(entries, true)
}
