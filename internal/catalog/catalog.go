// Package catalog records extraction runs in a SQLite database so that the
// provenance of every output array can be looked up later.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    elapsed_ms INTEGER NOT NULL,
    input TEXT NOT NULL,
    output TEXT NOT NULL,
    mode TEXT NOT NULL,
    num_timesteps INTEGER NOT NULL,
    num_baselines_per_timestep INTEGER NOT NULL,
    num_channels INTEGER NOT NULL,
    row_list TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT
);
`

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one catalogued extraction.
type Run struct {
	ID                      string
	StartedAt               time.Time
	Elapsed                 time.Duration
	Input                   string
	Output                  string
	Mode                    string
	NumTimesteps            int
	NumBaselinesPerTimestep int
	NumChannels             int
	Rows                    []int
	Status                  string
	Error                   string
}

// Catalog is a SQLite-backed run log.
type Catalog struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog at dsn. Pass ":memory:" for a
// throwaway in-memory catalog.
func Open(dsn string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", dsn, err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// EnsureSchema creates the runs table if it does not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(runsSchema)
	return err
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record inserts one run. Run IDs are unique.
func (c *Catalog) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("catalog: run ID must be set")
	}
	_, err := c.db.ExecContext(ctx, `INSERT INTO runs(
        id, started_at, elapsed_ms, input, output, mode,
        num_timesteps, num_baselines_per_timestep, num_channels, row_list, status, error
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UnixNano(),
		run.Elapsed.Milliseconds(),
		run.Input,
		run.Output,
		run.Mode,
		run.NumTimesteps,
		run.NumBaselinesPerTimestep,
		run.NumChannels,
		formatRows(run.Rows),
		run.Status,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("catalog: record run %s: %w", run.ID, err)
	}
	return nil
}

// Runs returns every recorded run, oldest first.
func (c *Catalog) Runs(ctx context.Context) ([]Run, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT
        id, started_at, elapsed_ms, input, output, mode,
        num_timesteps, num_baselines_per_timestep, num_channels, row_list, status, COALESCE(error, '')
    FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			startedAt int64
			elapsedMs int64
			rowList   string
		)
		if err := rows.Scan(&run.ID, &startedAt, &elapsedMs, &run.Input, &run.Output, &run.Mode,
			&run.NumTimesteps, &run.NumBaselinesPerTimestep, &run.NumChannels, &rowList,
			&run.Status, &run.Error); err != nil {
			return nil, fmt.Errorf("catalog: scan run: %w", err)
		}
		run.StartedAt = time.Unix(0, startedAt).UTC()
		run.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		if run.Rows, err = parseRows(rowList); err != nil {
			return nil, fmt.Errorf("catalog: run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func formatRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}

func parseRows(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	rows := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad row list %q: %w", s, err)
		}
		rows[i] = v
	}
	return rows, nil
}
