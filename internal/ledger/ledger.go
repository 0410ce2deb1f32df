package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"reenc/internal/hashing"
	"reenc/internal/logging"
	"reenc/internal/services"
)

// ErrDuplicate is returned by Record when an entry already exists for the
// same (hash, crf, preset) key. Entries are write-once; a duplicate insert
// is a caller bug, not a recoverable state.
var ErrDuplicate = errors.New("ledger entry already exists")

const schema = `
CREATE TABLE IF NOT EXISTS bad_encodings (
    hash BLOB,
    crf INTEGER,
    preset TEXT,
    output_bytes INTEGER,
    PRIMARY KEY (hash, crf, preset)
)`

// Entry is one recorded bad encode.
type Entry struct {
	Hash        []byte
	CRF         int
	Preset      string
	OutputBytes int64
}

// Store manages bad-encoding persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	hasher *hashing.Hasher
	logger *slog.Logger
}

// Open initializes or connects to the ledger database. Schema creation is
// idempotent; opening an existing store is safe.
func Open(path string, hasher *hashing.Hasher, logger *slog.Logger) (*Store, error) {
	if hasher == nil {
		hasher = hashing.NewHasher()
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrStorage, "ledger", "open", "create directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "ledger", "open", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrStorage, "ledger", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrStorage, "ledger", "open", "create schema", err)
	}

	return &Store{
		db:     db,
		path:   path,
		hasher: hasher,
		logger: logging.NewComponentLogger(logger, "ledger"),
	}, nil
}

// Path returns the on-disk location of the store.
func (s *Store) Path() string {
	return s.path
}

// Close flushes pending writes and releases the store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup hashes the file at path and returns the recorded output size for
// the exact (hash, crf, preset) triple. Absence is (0, false, nil), not an
// error.
func (s *Store) Lookup(ctx context.Context, path string, crf int, preset string) (int64, bool, error) {
	digest, err := s.hasher.Sum(path)
	if err != nil {
		return 0, false, services.Wrap(services.ErrStorage, "ledger", "lookup", "hash input", err)
	}

	var outputBytes int64
	row := s.db.QueryRowContext(ctx,
		`SELECT output_bytes FROM bad_encodings WHERE hash = ? AND crf = ? AND preset = ?`,
		digest, crf, preset)
	if err := row.Scan(&outputBytes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, services.Wrap(services.ErrStorage, "ledger", "lookup", "", err)
	}
	return outputBytes, true, nil
}

// Record hashes the file at path and inserts a new row for the triple.
// Inserting a key that already exists returns ErrDuplicate and leaves the
// existing row untouched, preserving the append-only invariant.
func (s *Store) Record(ctx context.Context, path string, crf int, preset string, outputBytes int64) error {
	digest, err := s.hasher.Sum(path)
	if err != nil {
		return services.Wrap(services.ErrStorage, "ledger", "record", "hash input", err)
	}

	// INSERT OR IGNORE + RowsAffected detects the conflict without
	// depending on driver-specific constraint error codes.
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO bad_encodings (hash, crf, preset, output_bytes) VALUES (?, ?, ?, ?)`,
		digest, crf, preset, outputBytes)
	if err != nil {
		return services.Wrap(services.ErrStorage, "ledger", "record", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return services.Wrap(services.ErrStorage, "ledger", "record", "rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: crf=%d preset=%s", ErrDuplicate, crf, preset)
	}

	s.logger.Info("recorded bad encoding",
		logging.String(logging.FieldInput, path),
		logging.Int("crf", crf),
		logging.String("preset", preset),
		logging.Int64("output_bytes", outputBytes))
	return nil
}

// Entries returns all recorded entries ordered by preset then quality.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, crf, preset, output_bytes FROM bad_encodings ORDER BY preset, crf`)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "ledger", "list", "", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Hash, &entry.CRF, &entry.Preset, &entry.OutputBytes); err != nil {
			return nil, services.Wrap(services.ErrStorage, "ledger", "list", "scan", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "ledger", "list", "", err)
	}
	return entries, nil
}

// Count returns the number of recorded entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM bad_encodings`)
	if err := row.Scan(&count); err != nil {
		return 0, services.Wrap(services.ErrStorage, "ledger", "count", "", err)
	}
	return count, nil
}

// Clear removes all entries. Operator action only; the orchestrator never
// calls this.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bad_encodings`)
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, "ledger", "clear", "", err)
	}
	return res.RowsAffected()
}
