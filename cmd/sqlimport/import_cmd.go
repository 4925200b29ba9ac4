// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mdhender/sqlimport"
)

func newImportCmd(a *app) *cobra.Command {
	var cont, multi bool

	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Run SQL scripts against the database",
		Long: `Run each script, in order, on a single database connection.

By default the run stops at the first failing statement. With --continue,
failing statements are logged and skipped. Use "-" to read from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.settings
			if cmd.Flags().Changed("continue") {
				s.ContinueOnError = cont
			}
			if cmd.Flags().Changed("multi") {
				s.MultiStatementLines = multi
			}

			ctx := cmd.Context()
			db, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			conn, err := db.Conn(ctx)
			if err != nil {
				return fmt.Errorf("conn: %w", err)
			}
			defer conn.Close()

			out := cmd.OutOrStdout()
			total, failed := 0, 0
			for _, name := range args {
				src := openSource(cmd, name)
				r := &reporter{
					ctx:    ctx,
					exec:   sqlimport.NewExecutor(conn),
					logger: a.logger.With("source", src.Name()),
				}
				n, err := sqlimport.Import(ctx, src, r, sqlimport.Options{
					Observer:            r,
					AbortOnError:        !s.ContinueOnError,
					MultiStatementLines: s.MultiStatementLines,
				})
				total += n
				failed += r.failed
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d statements, %d failed\n", src.Name(), n, r.failed)
			}
			if len(args) > 1 {
				fmt.Fprintf(out, "total: %d statements, %d failed\n", total, failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cont, "continue", false, "Skip failing statements instead of stopping")
	cmd.Flags().BoolVar(&multi, "multi", false, "Allow several statements on one line")
	return cmd
}

// reporter sits between the importer and the database connection so the
// observer can log the executor's error for a failed statement.
type reporter struct {
	ctx     context.Context
	exec    sqlimport.Executor
	logger  *slog.Logger
	lastErr error
	failed  int
}

func (r *reporter) Exec(ctx context.Context, stmt string) error {
	r.lastErr = r.exec.Exec(ctx, stmt)
	return r.lastErr
}

// Observe logs the outcome of a statement. It stops the run once the
// command context is cancelled.
func (r *reporter) Observe(line int, stmt string, ok bool) error {
	if ok {
		r.logger.Debug("statement", "line", line, "sql", stmt)
	} else {
		r.failed++
		r.logger.Warn("statement failed", "line", line, "err", r.lastErr)
	}
	return r.ctx.Err()
}
