package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store keeps named save games in a SQLite file.
type Store struct {
	db *sql.DB
}

// SaveInfo lists a save without decoding it.
type SaveInfo struct {
	Name    string
	SavedAt time.Time
	Digest  string
	Size    int
}

// Open creates the database file and schema if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create save directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS saves (
		name TEXT PRIMARY KEY,
		saved_at INTEGER NOT NULL,
		digest TEXT NOT NULL,
		payload BLOB NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes snap under name, replacing any earlier save of that name.
func (s *Store) Save(ctx context.Context, name string, snap Snapshot) error {
	snap.Version = SnapshotVersion
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}
	payload, sum, err := Encode(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (name, saved_at, digest, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET saved_at = excluded.saved_at, digest = excluded.digest, payload = excluded.payload`,
		name, snap.SavedAt.UnixNano(), sum, payload)
	if err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	return nil
}

// Load reads and verifies the save called name.
func (s *Store) Load(ctx context.Context, name string) (Snapshot, error) {
	var (
		sum     string
		payload []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT digest, payload FROM saves WHERE name = ?`, name).Scan(&sum, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("load %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %q: %w", name, err)
	}
	snap, err := Decode(payload, sum)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %q: %w", name, err)
	}
	return snap, nil
}

// List returns every save, newest first.
func (s *Store) List(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, saved_at, digest, length(payload) FROM saves ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []SaveInfo
	for rows.Next() {
		var (
			info SaveInfo
			ns   int64
		)
		if err := rows.Scan(&info.Name, &ns, &info.Digest, &info.Size); err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		info.SavedAt = time.Unix(0, ns).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}
