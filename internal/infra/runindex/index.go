// Package runindex maintains the SQLite index over saved run artifacts.
//
// The index is derived data: the JSON artifacts under the runs directory
// stay the source of truth, and Reindex on the store can rebuild this
// database from them at any time.
package runindex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/project-avie/avie/internal/domain"

	_ "modernc.org/sqlite"
)

// Index is the queryable run catalog backed by SQLite.
type Index struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	name        TEXT NOT NULL,
	vehicle     TEXT NOT NULL DEFAULT '',
	mission     TEXT NOT NULL DEFAULT '',
	scenario    TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	file        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

CREATE TABLE IF NOT EXISTS metrics (
	run_id TEXT NOT NULL,
	name   TEXT NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (run_id, name)
);
`

// Open creates or opens the index database at path, creating parent
// directories and missing tables as needed.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, openErr(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, openErr(path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, openErr(path, err)
	}

	return &Index{db: db, path: path}, nil
}

func openErr(path string, err error) error {
	return &domain.OpError{
		Op:   "runindex.open",
		Kind: domain.KindExecution,
		Path: path,
		Err:  err,
	}
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

// Insert records one run and its summary metrics, replacing any previous
// rows for the same id.
func (ix *Index) Insert(row domain.RunRow, metrics domain.Metrics) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return ix.execErr("runindex.insert", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO runs
		(id, kind, name, vehicle, mission, scenario, status, started_at, duration_ms, file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, string(row.Kind), row.Name, row.Vehicle, row.Mission, row.Scenario,
		string(row.Status), row.StartedAt.UTC().Format(time.RFC3339Nano),
		row.DurationMS, row.File)
	if err != nil {
		return ix.execErr("runindex.insert", err)
	}

	if _, err := tx.Exec(`DELETE FROM metrics WHERE run_id = ?`, row.ID); err != nil {
		return ix.execErr("runindex.insert", err)
	}
	for name, value := range metrics {
		if _, err := tx.Exec(`INSERT INTO metrics (run_id, name, value) VALUES (?, ?, ?)`,
			row.ID, name, value); err != nil {
			return ix.execErr("runindex.insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ix.execErr("runindex.insert", err)
	}
	return nil
}

// Delete removes a run and its metrics from the index.
func (ix *Index) Delete(id string) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return ix.execErr("runindex.delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM metrics WHERE run_id = ?`, id); err != nil {
		return ix.execErr("runindex.delete", err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return ix.execErr("runindex.delete", err)
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return ix.execErr("runindex.delete", err)
	}

	if n == 0 {
		return &domain.OpError{
			Op:   "runindex.delete",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("run %q: %w", id, domain.ErrNotFound),
		}
	}
	return nil
}

// Clear drops every row. Reindex uses it before re-scanning the runs dir.
func (ix *Index) Clear() error {
	if _, err := ix.db.Exec(`DELETE FROM metrics`); err != nil {
		return ix.execErr("runindex.clear", err)
	}
	if _, err := ix.db.Exec(`DELETE FROM runs`); err != nil {
		return ix.execErr("runindex.clear", err)
	}
	return nil
}

// Get returns one indexed run by id.
func (ix *Index) Get(id string) (domain.RunRow, error) {
	row := ix.db.QueryRow(`SELECT id, kind, name, vehicle, mission, scenario, status, started_at, duration_ms, file
		FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return domain.RunRow{}, &domain.OpError{
			Op:   "runindex.get",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("run %q: %w", id, domain.ErrNotFound),
		}
	}
	if err != nil {
		return domain.RunRow{}, ix.execErr("runindex.get", err)
	}
	return r, nil
}

// Latest returns the newest run of the given kind and name.
func (ix *Index) Latest(kind domain.RunKind, name string) (domain.RunRow, error) {
	row := ix.db.QueryRow(`SELECT id, kind, name, vehicle, mission, scenario, status, started_at, duration_ms, file
		FROM runs WHERE kind = ? AND name = ? ORDER BY started_at DESC, id DESC LIMIT 1`,
		string(kind), name)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return domain.RunRow{}, &domain.OpError{
			Op:   "runindex.latest",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("%s %q: %w", kind, name, domain.ErrNotFound),
		}
	}
	if err != nil {
		return domain.RunRow{}, ix.execErr("runindex.latest", err)
	}
	return r, nil
}

// List returns index rows newest first, narrowed by the filter.
func (ix *Index) List(f domain.RunFilter) ([]domain.RunRow, error) {
	q := `SELECT id, kind, name, vehicle, mission, scenario, status, started_at, duration_ms, file FROM runs`

	var conds []string
	var args []any
	if f.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Name != "" {
		conds = append(conds, "name = ?")
		args = append(args, f.Name)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY started_at DESC, id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := ix.db.Query(q, args...)
	if err != nil {
		return nil, ix.execErr("runindex.list", err)
	}
	defer rows.Close()

	var out []domain.RunRow
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, ix.execErr("runindex.list", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, ix.execErr("runindex.list", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (domain.RunRow, error) {
	var r domain.RunRow
	var kind, status, started string
	if err := s.Scan(&r.ID, &kind, &r.Name, &r.Vehicle, &r.Mission, &r.Scenario,
		&status, &started, &r.DurationMS, &r.File); err != nil {
		return domain.RunRow{}, err
	}
	r.Kind = domain.RunKind(kind)
	r.Status = domain.RunStatus(status)
	if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
		r.StartedAt = t
	}
	return r, nil
}

func (ix *Index) execErr(op string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindExecution,
		Path: ix.path,
		Err:  err,
	}
}
