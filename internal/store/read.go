package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID        string `json:"id"`
	Suite     string `json:"suite"`
	Compiler  string `json:"compiler"`
	Simulator string `json:"simulator"`
	Root      string `json:"root"`
	Passed    int    `json:"passed"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
}

// CaseRecord is one stored case result.
type CaseRecord struct {
	Seq     int    `json:"seq"`
	CaseID  string `json:"case_id"`
	Name    string `json:"name"`
	Source  string `json:"source"`
	Pass    bool   `json:"pass"`
	Stage   string `json:"stage"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`

	Expected []byte `json:"-"`
	Actual   []byte `json:"-"`

	// Exit codes are nil when the stage never ran.
	CompileExit  *int `json:"compile_exit,omitempty"`
	SimulateExit *int `json:"simulate_exit,omitempty"`
}

// RunRecord is a stored run with its cases in execution order.
type RunRecord struct {
	RunSummary
	Cases []CaseRecord `json:"cases"`
}

// ListRuns returns the most recent runs, newest first.
// Run IDs are UUIDv7, so ORDER BY id DESC is reverse chronological.
// A limit <= 0 returns every run.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT id, suite, compiler, simulator, root, passed, failed, total
		FROM runs
		ORDER BY id COLLATE BINARY DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Suite, &r.Compiler, &r.Simulator, &r.Root, &r.Passed, &r.Failed, &r.Total); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a run and its case results ordered by seq.
// Returns ErrRunNotFound if the ID is unknown.
func (s *Store) ReadRun(ctx context.Context, id string) (*RunRecord, error) {
	var r RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, suite, compiler, simulator, root, passed, failed, total
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Suite, &r.Compiler, &r.Simulator, &r.Root, &r.Passed, &r.Failed, &r.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	cases, err := s.readCases(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Cases = cases
	return &r, nil
}

func (s *Store) readCases(ctx context.Context, runID string) ([]CaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, case_id, name, source, pass, stage, kind, message, expected, actual, compile_exit, simulate_exit
		FROM case_results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query case results: %w", err)
	}
	defer rows.Close()

	cases := []CaseRecord{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate case results: %w", err)
	}
	return cases, nil
}

func scanCase(rows *sql.Rows) (CaseRecord, error) {
	var (
		c            CaseRecord
		compileExit  sql.NullInt64
		simulateExit sql.NullInt64
	)
	err := rows.Scan(
		&c.Seq, &c.CaseID, &c.Name, &c.Source, &c.Pass, &c.Stage, &c.Kind, &c.Message,
		&c.Expected, &c.Actual, &compileExit, &simulateExit,
	)
	if err != nil {
		return CaseRecord{}, fmt.Errorf("scan case result: %w", err)
	}
	c.CompileExit = nullableInt(compileExit)
	c.SimulateExit = nullableInt(simulateExit)
	return c, nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
