// Package store persists per-frame conversion summaries to sqlite so a
// session can be audited after the fact: which frames were converted, their
// shapes, and how long conversion took. Point data itself is never stored;
// it flows through the publisher only.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// FrameRecord is one persisted conversion summary.
type FrameRecord struct {
	ID          int64     `json:"id"`
	FrameID     string    `json:"frame_id"` // uuid from the frame builder
	SensorID    string    `json:"sensor_id"`
	StampNanos  int64     `json:"stamp_nanos"`
	Height      uint32    `json:"height"`
	Width       uint32    `json:"width"`
	CloudBytes  int       `json:"cloud_bytes"`
	ScanSamples int       `json:"scan_samples"`
	IsDense     bool      `json:"is_dense"`
	ConvertTime float64   `json:"convert_time_seconds"`
	CreatedAt   time.Time `json:"created_at"`
}

// FrameStore provides persistence for frame conversion summaries.
type FrameStore struct {
	db *sql.DB
}

const frameSchema = `
CREATE TABLE IF NOT EXISTS frame_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	frame_id TEXT NOT NULL UNIQUE,
	sensor_id TEXT NOT NULL,
	stamp_nanos INTEGER NOT NULL,
	height INTEGER NOT NULL,
	width INTEGER NOT NULL,
	cloud_bytes INTEGER NOT NULL,
	scan_samples INTEGER NOT NULL,
	is_dense INTEGER NOT NULL,
	convert_time_seconds REAL NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_frame_records_sensor ON frame_records(sensor_id, stamp_nanos);
`

// Open opens (creating if needed) the sqlite database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*FrameStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening frame store %s: %w", path, err)
	}
	if _, err := db.Exec(frameSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating frame store schema: %w", err)
	}
	return &FrameStore{db: db}, nil
}

// Close releases the database handle.
func (s *FrameStore) Close() error {
	return s.db.Close()
}

// InsertFrame persists one conversion summary.
func (s *FrameStore) InsertFrame(r FrameRecord) error {
	query := `
		INSERT INTO frame_records (
			frame_id, sensor_id, stamp_nanos, height, width,
			cloud_bytes, scan_samples, is_dense, convert_time_seconds, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(query,
		r.FrameID,
		r.SensorID,
		r.StampNanos,
		r.Height,
		r.Width,
		r.CloudBytes,
		r.ScanSamples,
		boolToInt(r.IsDense),
		r.ConvertTime,
		created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting frame %s: %w", r.FrameID, err)
	}
	return nil
}

// RecentFrames returns up to limit summaries for a sensor, newest stamp first.
func (s *FrameStore) RecentFrames(sensorID string, limit int) ([]FrameRecord, error) {
	query := `
		SELECT id, frame_id, sensor_id, stamp_nanos, height, width,
		       cloud_bytes, scan_samples, is_dense, convert_time_seconds, created_at
		FROM frame_records
		WHERE sensor_id = ?
		ORDER BY stamp_nanos DESC
		LIMIT ?
	`
	rows, err := s.db.Query(query, sensorID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent frames for %s: %w", sensorID, err)
	}
	defer rows.Close()

	var records []FrameRecord
	for rows.Next() {
		var r FrameRecord
		var dense int
		var created string
		if err := rows.Scan(&r.ID, &r.FrameID, &r.SensorID, &r.StampNanos, &r.Height, &r.Width,
			&r.CloudBytes, &r.ScanSamples, &dense, &r.ConvertTime, &created); err != nil {
			return nil, fmt.Errorf("scanning frame record: %w", err)
		}
		r.IsDense = dense != 0
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			r.CreatedAt = ts
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// FrameCount returns the number of persisted summaries for a sensor.
func (s *FrameStore) FrameCount(sensorID string) (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM frame_records WHERE sensor_id = ?`, sensorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting frames for %s: %w", sensorID, err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
