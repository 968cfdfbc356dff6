// Package store writes scan snapshots to a SQLite database.
//
// A snapshot is an export of one scan's results. Scans never load from it:
// every scan rebuilds the index from the files. `fitdex snapshots` reads
// saved snapshots for inspection.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/theirongolddev/fitdex/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DB is an open snapshot database.
type DB struct {
	db *sql.DB
}

// Scan describes the scan a snapshot was taken from.
type Scan struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FilesFound int
	Indexed    int
	Skipped    int
	FullReads  int
	RangeStart time.Time // zero when the snapshot is not range-limited
	RangeEnd   time.Time
}

// Open opens or creates the snapshot database at the given path.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveSnapshot stores a scan and its activities in one transaction. An
// empty scan.ID is replaced with a new UUID. It returns the scan id.
func (d *DB) SaveSnapshot(scan Scan, activities []model.Activity) (string, error) {
	if scan.ID == "" {
		scan.ID = uuid.NewString()
	}

	tx, err := d.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO scans
		(id, root, started_at, files_found, indexed, skipped, full_reads, range_start, range_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scan.ID, scan.Root, formatTime(scan.StartedAt), scan.FilesFound, scan.Indexed,
		scan.Skipped, scan.FullReads, nullTime(scan.RangeStart), nullTime(scan.RangeEnd),
	)
	if err != nil {
		return "", fmt.Errorf("inserting scan: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO activities
		(scan_id, timestamp, path, distance_m, calories, duration_s,
		 avg_speed_mps, ascent_m, descent_m, read_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range activities {
		var readErr sql.NullString
		if a.Err != nil {
			readErr = sql.NullString{String: a.Err.Error(), Valid: true}
		}
		s := a.Stats
		if _, err := stmt.Exec(
			scan.ID, formatTime(a.Time), a.Path, s.Distance, int(s.Calories), s.Duration,
			s.AvgSpeed, int(s.Ascent), int(s.Descent), readErr,
		); err != nil {
			return "", fmt.Errorf("inserting %s: %w", a.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return scan.ID, nil
}

// LoadActivities reads the activities of one snapshot, oldest first. A
// stored read error comes back as Activity.Err.
func (d *DB) LoadActivities(scanID string) ([]model.Activity, error) {
	rows, err := d.db.Query(`SELECT
		timestamp, path, distance_m, calories, duration_s, avg_speed_mps, ascent_m, descent_m, read_error
		FROM activities WHERE scan_id = ? ORDER BY timestamp`, scanID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		var ts string
		var cal, asc, desc int
		var readErr sql.NullString
		if err := rows.Scan(&ts, &a.Path, &a.Stats.Distance, &cal, &a.Stats.Duration,
			&a.Stats.AvgSpeed, &asc, &desc, &readErr); err != nil {
			return nil, err
		}
		if readErr.Valid {
			a.Err = errors.New(readErr.String)
		}
		if a.Time, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("activity %s: bad timestamp %q: %w", a.Path, ts, err)
		}
		a.Stats.Calories = uint16(cal)
		a.Stats.Ascent = uint16(asc)
		a.Stats.Descent = uint16(desc)
		out = append(out, a)
	}
	return out, rows.Err()
}

// ScanIDs lists snapshot ids, newest first.
func (d *DB) ScanIDs() ([]string, error) {
	rows, err := d.db.Query("SELECT id FROM scans ORDER BY started_at DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// timeLayout is fixed width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}
