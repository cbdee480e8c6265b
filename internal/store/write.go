package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sameersismail/cmmcheck/internal/harness"
	"github.com/sameersismail/cmmcheck/internal/toolchain"
)

// RunMeta is the toolchain context recorded alongside a run.
type RunMeta struct {
	Compiler  string
	Simulator string
	Root      string
}

// WriteRun records a suite result and all its case results in a single
// transaction. Either the whole run is stored or nothing is.
//
// Writing the same run ID twice is an error: runs are append-only.
func (s *Store) WriteRun(ctx context.Context, meta RunMeta, result *harness.SuiteResult) error {
	if result == nil {
		return fmt.Errorf("write run: nil result")
	}
	if result.RunID == "" {
		return fmt.Errorf("write run: run id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, suite, compiler, simulator, root, passed, failed, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.RunID,
		result.Suite,
		meta.Compiler,
		meta.Simulator,
		meta.Root,
		result.Passed,
		result.Failed,
		result.Total,
	)
	if err != nil {
		return fmt.Errorf("write run: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO case_results
		(run_id, seq, case_id, name, source, pass, stage, kind, message, expected, actual, compile_exit, simulate_exit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write run: prepare case insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range result.Cases {
		var kind, message string
		if c.Failure != nil {
			kind = string(c.Failure.Kind)
			message = c.Failure.Message
		}

		_, err := stmt.ExecContext(ctx,
			result.RunID,
			i,
			c.CaseID,
			c.Name,
			c.Source,
			c.Pass,
			string(c.Stage),
			kind,
			message,
			c.Expected,
			c.Actual,
			exitCode(c.Compile),
			exitCode(c.Simulate),
		)
		if err != nil {
			return fmt.Errorf("write run: insert case %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// exitCode maps a missing invocation to NULL.
func exitCode(inv *toolchain.Invocation) sql.NullInt64 {
	if inv == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(inv.ExitCode), Valid: true}
}
