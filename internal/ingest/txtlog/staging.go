package txtlog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotStaged is returned when an operation names a file that is not the
// currently staged one, or nothing is staged.
var ErrNotStaged = errors.New("import not staged")

// StagedFile is the single log file awaiting commit.
type StagedFile struct {
	ImportID string
	Name     string
	Content  []byte
	StagedAt time.Time
}

// StagingDB keeps the staged file and confirmed name aliases between runs.
type StagingDB struct {
	db *sql.DB
}

// OpenStagingDB opens (or creates) the SQLite staging database at dir/staging.db.
func OpenStagingDB(dir string) (*StagingDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "staging.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening staging db: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS staged_file (
			slot      INTEGER PRIMARY KEY CHECK (slot = 1),
			import_id TEXT NOT NULL,
			name      TEXT NOT NULL,
			content   BLOB NOT NULL,
			staged_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS aliases (
			import_id   TEXT NOT NULL,
			parsed_key  TEXT NOT NULL,
			exercise_id INTEGER NOT NULL,
			PRIMARY KEY (import_id, parsed_key)
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating staging tables: %w", err)
		}
	}

	return &StagingDB{db: db}, nil
}

// Stage stores f as the staged file. Staging different content discards the
// previous file and its aliases; restaging the same content keeps them.
func (s *StagingDB) Stage(ctx context.Context, f StagedFile) (replaced bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning staging tx: %w", err)
	}
	defer tx.Rollback()

	var prev string
	err = tx.QueryRowContext(ctx, `SELECT import_id FROM staged_file WHERE slot = 1`).Scan(&prev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("reading staged file: %w", err)
	}
	replaced = prev != "" && prev != f.ImportID

	if _, err := tx.ExecContext(ctx, `DELETE FROM aliases WHERE import_id <> ?`, f.ImportID); err != nil {
		return false, fmt.Errorf("clearing aliases: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO staged_file (slot, import_id, name, content, staged_at) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT (slot) DO UPDATE SET
		   import_id = excluded.import_id, name = excluded.name,
		   content = excluded.content, staged_at = excluded.staged_at`,
		f.ImportID, f.Name, f.Content, f.StagedAt.Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("writing staged file: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing staging tx: %w", err)
	}
	return replaced, nil
}

// Current returns the staged file, or ErrNotStaged.
func (s *StagingDB) Current(ctx context.Context) (*StagedFile, error) {
	var f StagedFile
	var stagedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT import_id, name, content, staged_at FROM staged_file WHERE slot = 1`,
	).Scan(&f.ImportID, &f.Name, &f.Content, &stagedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotStaged
	}
	if err != nil {
		return nil, fmt.Errorf("reading staged file: %w", err)
	}
	f.StagedAt = time.Unix(stagedAt, 0).UTC()
	return &f, nil
}

// Get returns the staged file if its ID matches importID.
func (s *StagingDB) Get(ctx context.Context, importID string) (*StagedFile, error) {
	f, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if f.ImportID != importID {
		return nil, fmt.Errorf("%w: %s", ErrNotStaged, importID)
	}
	return f, nil
}

// SetAlias records that parsedKey maps to exerciseID for the given import.
func (s *StagingDB) SetAlias(ctx context.Context, importID, parsedKey string, exerciseID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO aliases (import_id, parsed_key, exercise_id) VALUES (?, ?, ?)`,
		importID, parsedKey, exerciseID,
	)
	if err != nil {
		return fmt.Errorf("saving alias %q: %w", parsedKey, err)
	}
	return nil
}

// Aliases returns the confirmed aliases of an import keyed by parsed name key.
func (s *StagingDB) Aliases(ctx context.Context, importID string) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT parsed_key, exercise_id FROM aliases WHERE import_id = ?`, importID)
	if err != nil {
		return nil, fmt.Errorf("querying aliases: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var key string
		var id int64
		if err := rows.Scan(&key, &id); err != nil {
			return nil, fmt.Errorf("scanning alias: %w", err)
		}
		out[key] = id
	}
	return out, rows.Err()
}

// Close closes the staging database.
func (s *StagingDB) Close() error {
	return s.db.Close()
}

// ContentHash is the import ID of a file: the hex SHA-256 of its content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
