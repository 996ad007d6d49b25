package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// IconRepository stores icon bytes keyed by asset path. It implements services.IconStore.
type IconRepository struct {
	db *sql.DB
}

// IconStats summarises the icon cache.
type IconStats struct {
	Count  int
	Bytes  int64
	Oldest *time.Time
}

// NewIconRepository creates a new IconRepository with the given database connection
func NewIconRepository(db *sql.DB) *IconRepository {
	return &IconRepository{db: db}
}

// GetIcon returns the stored bytes for path. ok is false when nothing is stored.
func (r *IconRepository) GetIcon(path string) ([]byte, bool, error) {
	var data []byte
	err := r.db.QueryRow(`SELECT data FROM icon_cache WHERE path = ?`, path).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read icon %s: %w", path, err)
	}
	return data, true, nil
}

// PutIcon stores data for path, replacing any previous bytes.
func (r *IconRepository) PutIcon(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("icon path is required")
	}
	_, err := r.db.Exec(
		`INSERT OR REPLACE INTO icon_cache (path, data, created_at) VALUES (?, ?, ?)`,
		path, data, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to store icon %s: %w", path, err)
	}
	return nil
}

// Stats counts stored icons and their total size.
func (r *IconRepository) Stats() (IconStats, error) {
	var (
		stats  IconStats
		oldest sql.NullString
	)
	err := r.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0), MIN(created_at) FROM icon_cache`).
		Scan(&stats.Count, &stats.Bytes, &oldest)
	if err != nil {
		return IconStats{}, fmt.Errorf("failed to read icon stats: %w", err)
	}
	if oldest.Valid {
		if t, err := parseTimestamp(oldest.String); err == nil {
			stats.Oldest = &t
		}
	}
	return stats, nil
}

// Clear removes every stored icon and returns how many were removed.
func (r *IconRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM icon_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear icons: %w", err)
	}
	return result.RowsAffected()
}

// parseTimestamp reads the text form go-sqlite3 uses for aggregated TIMESTAMP values.
func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
