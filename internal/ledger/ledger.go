package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotRecorded = errors.New("carrier not recorded in ledger")

const schema = `
CREATE TABLE IF NOT EXISTS embeds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    fingerprint TEXT NOT NULL UNIQUE,
    source_path TEXT NOT NULL,
    output_path TEXT NOT NULL,
    seed INTEGER NOT NULL,
    length INTEGER NOT NULL,
    algorithm TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_embeds_output_path ON embeds(output_path);
`

// Entry is the out-of-band information needed to extract from one carrier.
type Entry struct {
	Fingerprint string
	SourcePath  string
	OutputPath  string
	Seed        int64
	Length      int
	Algorithm   string
	CreatedAt   time.Time
}

// Ledger remembers the parameters of past embeds, keyed by the output file's digest.
// Seeds are stored in clear, so the ledger file is as sensitive as the seeds themselves.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the SQLite ledger at path.
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database connection
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores e, replacing any earlier entry with the same fingerprint.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `
INSERT INTO embeds (fingerprint, source_path, output_path, seed, length, algorithm, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(fingerprint) DO UPDATE SET
    source_path = excluded.source_path,
    output_path = excluded.output_path,
    seed = excluded.seed,
    length = excluded.length,
    algorithm = excluded.algorithm,
    created_at = excluded.created_at`,
		e.Fingerprint, e.SourcePath, e.OutputPath, e.Seed, e.Length, e.Algorithm, e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record embed: %w", err)
	}
	return nil
}

// Lookup returns the entry for fingerprint.
func (l *Ledger) Lookup(ctx context.Context, fingerprint string) (Entry, error) {
	var (
		e       = Entry{Fingerprint: fingerprint}
		created int64
	)
	err := l.db.QueryRowContext(ctx,
		"SELECT source_path, output_path, seed, length, algorithm, created_at FROM embeds WHERE fingerprint = ?",
		fingerprint,
	).Scan(&e.SourcePath, &e.OutputPath, &e.Seed, &e.Length, &e.Algorithm, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotRecorded, fingerprint)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to query embed: %w", err)
	}
	e.CreatedAt = time.UnixMilli(created)
	return e, nil
}

// List returns all entries, newest first.
func (l *Ledger) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT fingerprint, source_path, output_path, seed, length, algorithm, created_at FROM embeds ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeds: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.Fingerprint, &e.SourcePath, &e.OutputPath, &e.Seed, &e.Length, &e.Algorithm, &created); err != nil {
			return nil, fmt.Errorf("failed to scan embed: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Fingerprint returns the hex SHA-256 digest of the file at path.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
