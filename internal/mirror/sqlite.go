package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/hyperengineering/tuleap-go/pkg/tuleap"
)

// ErrNotFound is returned when a mirrored record does not exist.
var ErrNotFound = errors.New("not found in mirror")

// Store is the SQLite-backed tracker mirror.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the mirror database at dbPath, applies pragmas,
// and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginPull records the start of a replication run and returns it with a
// fresh id.
func (s *Store) BeginPull(ctx context.Context) (*Pull, error) {
	pull := &Pull{
		ID:        ulid.Make().String(),
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pulls (id, started_at) VALUES (?, ?)`,
		pull.ID, pull.StartedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("begin pull: %w", err)
	}
	return pull, nil
}

// FinishPull stamps a pull as finished and stores its counters.
func (s *Store) FinishPull(ctx context.Context, pull *Pull) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE pulls SET finished_at = ?, tracker_count = ?, artifact_count = ? WHERE id = ?`,
		now.Format(time.RFC3339), pull.TrackerCount, pull.ArtifactCount, pull.ID)
	if err != nil {
		return fmt.Errorf("finish pull %s: %w", pull.ID, err)
	}
	pull.FinishedAt = &now
	return nil
}

// LastPull returns the most recently started pull, or ErrNotFound when the
// mirror has never been pulled.
func (s *Store) LastPull(ctx context.Context) (*Pull, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, tracker_count, artifact_count
		FROM pulls ORDER BY id DESC LIMIT 1`)

	var pull Pull
	var startedAt string
	var finishedAt sql.NullString
	err := row.Scan(&pull.ID, &startedAt, &finishedAt, &pull.TrackerCount, &pull.ArtifactCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if pull.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parse pull start: %w", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse pull finish: %w", err)
		}
		pull.FinishedAt = &t
	}
	return &pull, nil
}

// SaveTracker upserts a tracker's mirrored metadata.
func (s *Store) SaveTracker(ctx context.Context, rec TrackerRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trackers (id, label, description, item_name, pulled_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			description = excluded.description,
			item_name = excluded.item_name,
			pulled_at = excluded.pulled_at`,
		rec.ID, rec.Label, rec.Description, rec.ItemName, rec.PulledAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save tracker %d: %w", rec.ID, err)
	}
	return nil
}

// Tracker returns a mirrored tracker by id.
func (s *Store) Tracker(ctx context.Context, id int) (*TrackerRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, description, item_name, pulled_at
		FROM trackers WHERE id = ?`, id)

	var rec TrackerRecord
	var pulledAt string
	err := row.Scan(&rec.ID, &rec.Label, &rec.Description, &rec.ItemName, &pulledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if rec.PulledAt, err = time.Parse(time.RFC3339, pulledAt); err != nil {
		return nil, fmt.Errorf("parse tracker pull time: %w", err)
	}
	return &rec, nil
}

// SaveArtifact upserts one mirrored artifact. Values are stored as JSON.
func (s *Store) SaveArtifact(ctx context.Context, rec ArtifactRecord) error {
	values, err := json.Marshal(rec.Values)
	if err != nil {
		return fmt.Errorf("marshal artifact %d values: %w", rec.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO artifacts (id, tracker_id, xref, field_values, pull_id, pulled_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tracker_id = excluded.tracker_id,
			xref = excluded.xref,
			field_values = excluded.field_values,
			pull_id = excluded.pull_id,
			pulled_at = excluded.pulled_at`,
		rec.ID, rec.TrackerID, rec.Xref, string(values), rec.PullID, rec.PulledAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save artifact %d: %w", rec.ID, err)
	}
	return nil
}

// Artifact returns one mirrored artifact by id.
func (s *Store) Artifact(ctx context.Context, id int) (*ArtifactRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, tracker_id, xref, field_values, pull_id, pulled_at
		FROM artifacts WHERE id = ?`, id)
	return scanArtifact(row)
}

// ArtifactsByTracker returns every mirrored artifact of a tracker, ordered
// by id.
func (s *Store) ArtifactsByTracker(ctx context.Context, trackerID int) ([]*ArtifactRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tracker_id, xref, field_values, pull_id, pulled_at
		FROM artifacts WHERE tracker_id = ? ORDER BY id`, trackerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*ArtifactRecord
	for rows.Next() {
		rec, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PurgeTracker removes a tracker and its artifacts from the mirror.
func (s *Store) PurgeTracker(ctx context.Context, trackerID int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trackers WHERE id = ?`, trackerID); err != nil {
		return fmt.Errorf("purge tracker %d: %w", trackerID, err)
	}
	return nil
}

func scanArtifact(scanner interface{ Scan(...any) error }) (*ArtifactRecord, error) {
	var rec ArtifactRecord
	var valuesJSON string
	var pulledAt string

	err := scanner.Scan(&rec.ID, &rec.TrackerID, &rec.Xref, &valuesJSON, &rec.PullID, &pulledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(valuesJSON), &rec.Values); err != nil {
		return nil, fmt.Errorf("unmarshal artifact %d values: %w", rec.ID, err)
	}
	if rec.Values == nil {
		rec.Values = map[string]tuleap.Value{}
	}
	if rec.PulledAt, err = time.Parse(time.RFC3339, pulledAt); err != nil {
		return nil, fmt.Errorf("parse artifact pull time: %w", err)
	}
	return &rec, nil
}
