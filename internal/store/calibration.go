package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Point is a stored 2D point in normalized camera coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Calibration is a persisted table calibration: the four captured
// camera-space corners and the homography computed from them.
type Calibration struct {
	ID        string
	Corners   [4]Point
	Matrix    [9]float64
	CreatedAt time.Time
}

// CalibrationRepository provides persistence for calibrations.
type CalibrationRepository struct {
	db *sql.DB
}

// Calibrations returns the calibration repository for this store.
func (s *Store) Calibrations() *CalibrationRepository {
	return &CalibrationRepository{db: s.db}
}

// Save inserts a calibration. An empty ID is assigned a fresh UUID.
func (r *CalibrationRepository) Save(c *Calibration) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()

	corners, err := json.Marshal(c.Corners)
	if err != nil {
		return fmt.Errorf("encode corners: %w", err)
	}
	matrix, err := json.Marshal(c.Matrix)
	if err != nil {
		return fmt.Errorf("encode matrix: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO calibrations (id, corners, matrix, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, string(corners), string(matrix), c.CreatedAt,
	)
	return err
}

// Latest retrieves the most recent calibration.
func (r *CalibrationRepository) Latest() (*Calibration, error) {
	c := &Calibration{}
	var corners, matrix string

	err := r.db.QueryRow(
		`SELECT id, corners, matrix, created_at
		 FROM calibrations ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&c.ID, &corners, &matrix, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(corners), &c.Corners); err != nil {
		return nil, fmt.Errorf("decode corners: %w", err)
	}
	if err := json.Unmarshal([]byte(matrix), &c.Matrix); err != nil {
		return nil, fmt.Errorf("decode matrix: %w", err)
	}

	return c, nil
}
