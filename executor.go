// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlimport

import (
	"context"
	"database/sql"
)

// Executor runs one statement. A failure is reported by the returned
// error, never by panicking, so the import policy applies uniformly.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, stmt string) error

func (f ExecutorFunc) Exec(ctx context.Context, stmt string) error {
	return f(ctx, stmt)
}

// Execer is implemented by *sql.DB, *sql.Tx and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewExecutor returns an Executor that runs statements on e.
// Pass a *sql.Conn or *sql.Tx when statements depend on session state;
// a *sql.DB may hand each statement to a different connection.
func NewExecutor(e Execer) Executor {
	return execer{e: e}
}

type execer struct {
	e Execer
}

func (x execer) Exec(ctx context.Context, stmt string) error {
	_, err := x.e.ExecContext(ctx, stmt)
	return err
}

// Observer is told about every attempted statement. Returning an error
// aborts the run regardless of Options.AbortOnError.
type Observer interface {
	Observe(line int, stmt string, ok bool) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(line int, stmt string, ok bool) error

func (f ObserverFunc) Observe(line int, stmt string, ok bool) error {
	return f(line, stmt, ok)
}
