package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Calibration represents one accepted calibration range in normalized
// landmark coordinates.
type Calibration struct {
	ID        string
	Min       float64
	Max       float64
	CreatedAt time.Time
}

// CalibrationRepository provides operations on stored calibrations.
type CalibrationRepository struct {
	db *sql.DB
}

// Calibrations returns the calibration repository for this store.
func (s *Store) Calibrations() *CalibrationRepository {
	return &CalibrationRepository{db: s.db}
}

// Create inserts an accepted calibration. A missing ID is generated.
func (r *CalibrationRepository) Create(c *Calibration) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO calibrations (id, min, max, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Min, c.Max, c.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// Latest retrieves the most recently stored calibration.
func (r *CalibrationRepository) Latest() (*Calibration, error) {
	c := &Calibration{}

	err := r.db.QueryRow(
		`SELECT id, min, max, created_at FROM calibrations
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&c.ID, &c.Min, &c.Max, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

// List retrieves all stored calibrations, newest first.
func (r *CalibrationRepository) List() ([]*Calibration, error) {
	rows, err := r.db.Query(
		`SELECT id, min, max, created_at FROM calibrations
		 ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calibrations []*Calibration
	for rows.Next() {
		c := &Calibration{}
		if err := rows.Scan(&c.ID, &c.Min, &c.Max, &c.CreatedAt); err != nil {
			return nil, err
		}
		calibrations = append(calibrations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return calibrations, nil
}

// DeleteAll removes every stored calibration; used by the full reset.
func (r *CalibrationRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM calibrations`)
	return err
}
