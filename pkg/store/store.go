// Package store persists partitioning runs in a SQLite database so
// results can be compared across invocations and inputs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/hypercut/pkg/partition"
)

// Run is one stored partitioning run.
type Run struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Input     string    `json:"input"` // path or label of the input graph
	Cells     int       `json:"cells"`
	Nets      int       `json:"nets"`
	Ratio     float64   `json:"ratio"`
	Cutset    int       `json:"cutset"`
	Passes    int       `json:"passes"`
	A         []int     `json:"a"`
	B         []int     `json:"b"`
}

// Store is a SQLite-backed run history.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT    NOT NULL,
	input       TEXT    NOT NULL,
	cells       INTEGER NOT NULL,
	nets        INTEGER NOT NULL,
	ratio       REAL    NOT NULL,
	cutset      INTEGER NOT NULL,
	passes      INTEGER NOT NULL,
	block_a     TEXT    NOT NULL,
	block_b     TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

// createdAtLayout is fixed-width (nine fractional digits, never trimmed),
// so the text order of created_at equals time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Open opens (or creates) the run database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: cannot open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// SaveRun records a result and returns the new run id.
func (s *Store) SaveRun(input string, res *partition.Result) (int64, error) {
	blockA, err := json.Marshal(res.A)
	if err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	blockB, err := json.Marshal(res.B)
	if err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	out, err := s.db.Exec(
		`INSERT INTO runs (created_at, input, cells, nets, ratio, cutset, passes, block_a, block_b)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(createdAtLayout),
		input, res.Cells, res.Nets, res.Ratio, res.Cutset, res.Passes,
		string(blockA), string(blockB),
	)
	if err != nil {
		return 0, fmt.Errorf("store: inserting run: %w", err)
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	return id, nil
}

// GetRun loads a single run by id.
func (s *Store) GetRun(id int64) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, input, cells, nets, ratio, cutset, passes, block_a, block_b
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: run %d not found", id)
	}
	return run, err
}

// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `SELECT id, created_at, input, cells, nets, ratio, cutset, passes, block_a, block_b
		 FROM runs ORDER BY created_at DESC, id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("store: listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var created, blockA, blockB string
	err := row.Scan(&run.ID, &created, &run.Input, &run.Cells, &run.Nets,
		&run.Ratio, &run.Cutset, &run.Passes, &blockA, &blockB)
	if err != nil {
		return nil, err
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("store: bad timestamp %q: %w", created, err)
	}
	if err := json.Unmarshal([]byte(blockA), &run.A); err != nil {
		return nil, fmt.Errorf("store: bad block_a: %w", err)
	}
	if err := json.Unmarshal([]byte(blockB), &run.B); err != nil {
		return nil, fmt.Errorf("store: bad block_b: %w", err)
	}
	return &run, nil
}
