// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlimport_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdhender/sqlimport"
)

// recorder is an Executor that remembers every statement and fails the
// ones listed in fail.
type recorder struct {
	stmts []string
	fail  map[string]error
}

func (r *recorder) Exec(_ context.Context, stmt string) error {
	r.stmts = append(r.stmts, stmt)
	return r.fail[stmt]
}

type observation struct {
	line int
	stmt string
	ok   bool
}

func observe(into *[]observation) sqlimport.ObserverFunc {
	return func(line int, stmt string, ok bool) error {
		*into = append(*into, observation{line: line, stmt: stmt, ok: ok})
		return nil
	}
}

// trackedSource records whether it was opened and closed.
type trackedSource struct {
	script string
	opened bool
	closed bool
}

func (s *trackedSource) Name() string { return "tracked.sql" }

func (s *trackedSource) Open() (io.ReadCloser, error) {
	s.opened = true
	return &trackedReader{Reader: strings.NewReader(s.script), src: s}, nil
}

type trackedReader struct {
	*strings.Reader
	src *trackedSource
}

func (r *trackedReader) Close() error {
	r.src.closed = true
	return nil
}

var threeStatements = sqlimport.Lines("script.sql",
	"CREATE TABLE t (id INTEGER);",
	"INSERT INTO t VALUES (1);",
	"INSERT INTO t VALUES (2);",
)

func TestImport_NoTerminators(t *testing.T) {
	rec := &recorder{}

	n, err := sqlimport.Import(context.Background(), sqlimport.Lines("x.sql", "SELECT 1", "-- nothing here"), rec, sqlimport.Options{})

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, rec.stmts)
}

func TestImport_AllStatementsInOrder(t *testing.T) {
	rec := &recorder{}

	n, err := sqlimport.Import(context.Background(), threeStatements, rec, sqlimport.Options{AbortOnError: true})

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{
		"CREATE TABLE t (id INTEGER)",
		"INSERT INTO t VALUES (1)",
		"INSERT INTO t VALUES (2)",
	}, rec.stmts)
}

func TestImport_AbortOnError(t *testing.T) {
	errBoom := errors.New("boom")
	rec := &recorder{fail: map[string]error{"INSERT INTO t VALUES (1)": errBoom}}
	var seen []observation

	n, err := sqlimport.Import(context.Background(), threeStatements, rec, sqlimport.Options{
		Observer:     observe(&seen),
		AbortOnError: true,
	})

	require.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, rec.stmts, 2)
	assert.ErrorIs(t, err, sqlimport.ErrStatementFailed)
	assert.ErrorIs(t, err, errBoom)

	var ierr *sqlimport.Error
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, sqlimport.KindStatementFailed, ierr.Kind)
	assert.Equal(t, "script.sql", ierr.Source)
	assert.Equal(t, 2, ierr.Line)
	assert.Equal(t, "script.sql:2: statement failed: boom", err.Error())

	// the observer still hears about the failing statement
	assert.Equal(t, []observation{
		{line: 1, stmt: "CREATE TABLE t (id INTEGER)", ok: true},
		{line: 2, stmt: "INSERT INTO t VALUES (1)", ok: false},
	}, seen)
}

func TestImport_ContinueOnError(t *testing.T) {
	rec := &recorder{fail: map[string]error{"INSERT INTO t VALUES (1)": errors.New("boom")}}
	var seen []observation

	n, err := sqlimport.Import(context.Background(), threeStatements, rec, sqlimport.Options{
		Observer: observe(&seen),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, rec.stmts, 3)

	failures := 0
	for _, o := range seen {
		if !o.ok {
			failures++
			assert.Equal(t, 2, o.line)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestImport_ObserverFailureAlwaysAborts(t *testing.T) {
	errStop := errors.New("stop")
	rec := &recorder{}
	src := &trackedSource{script: "SELECT 1;\n\nSELECT 2;\nSELECT 3;\n"}

	n, err := sqlimport.Import(context.Background(), src, rec, sqlimport.Options{
		Observer: sqlimport.ObserverFunc(func(line int, _ string, _ bool) error {
			if line == 3 {
				return errStop
			}
			return nil
		}),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, sqlimport.ErrObserverFailed)
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, rec.stmts)
	assert.True(t, src.closed, "source should be closed after abort")

	var ierr *sqlimport.Error
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, 3, ierr.Line)
}

func TestImport_TrailingFragmentNotExecuted(t *testing.T) {
	rec := &recorder{}

	n, err := sqlimport.Import(context.Background(), sqlimport.Lines("x.sql", "SELECT 1; SELECT 2"), rec, sqlimport.Options{})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"SELECT 1"}, rec.stmts)
}

func TestImport_MultiStatementLines(t *testing.T) {
	rec := &recorder{}

	n, err := sqlimport.Import(context.Background(), sqlimport.Lines("x.sql", "SELECT 1; SELECT 2;"), rec, sqlimport.Options{
		MultiStatementLines: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, rec.stmts)
}

func TestImport_InvalidCallback(t *testing.T) {
	tests := []struct {
		name string
		exec sqlimport.Executor
		opts sqlimport.Options
	}{
		{name: "nil executor"},
		{name: "nil executor func", exec: sqlimport.ExecutorFunc(nil)},
		{name: "nil execer", exec: sqlimport.NewExecutor(nil)},
		{name: "typed nil *sql.DB", exec: sqlimport.NewExecutor((*sql.DB)(nil))},
		{name: "typed nil *sql.Tx", exec: sqlimport.NewExecutor((*sql.Tx)(nil))},
		{name: "nil observer func", exec: &recorder{}, opts: sqlimport.Options{Observer: sqlimport.ObserverFunc(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &trackedSource{script: "SELECT 1;"}

			n, err := sqlimport.Import(context.Background(), src, tt.exec, tt.opts)

			require.Error(t, err)
			assert.ErrorIs(t, err, sqlimport.ErrInvalidCallback)
			assert.Equal(t, 0, n)
			assert.False(t, src.opened, "source must not be opened")
		})
	}
}

func TestImport_NilSource(t *testing.T) {
	n, err := sqlimport.Import(context.Background(), nil, &recorder{}, sqlimport.Options{})

	require.Error(t, err)
	assert.ErrorIs(t, err, sqlimport.ErrSourceUnreadable)
	assert.Equal(t, "source unreadable: source is nil", err.Error())
	assert.Equal(t, 0, n)
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.sql")
	script := "/* seed data\n   for tests */\nINSERT INTO t VALUES (1);\n# done\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	var seen []observation
	n, err := sqlimport.ImportFile(context.Background(), path, &recorder{}, sqlimport.Options{Observer: observe(&seen)})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []observation{{line: 3, stmt: "INSERT INTO t VALUES (1)", ok: true}}, seen)
}

func TestImportFile_Missing(t *testing.T) {
	rec := &recorder{}
	path := filepath.Join(t.TempDir(), "missing.sql")

	n, err := sqlimport.ImportFile(context.Background(), path, rec, sqlimport.Options{})

	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, sqlimport.ErrSourceUnreadable)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, rec.stmts)

	var ierr *sqlimport.Error
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "missing.sql", ierr.Source)
	assert.Equal(t, 0, ierr.Line)
}

func TestImport_FS(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER);\nCREATE TABLE b (id INTEGER);\n")},
	}
	rec := &recorder{}

	n, err := sqlimport.Import(context.Background(), sqlimport.FS(fsys, "migrations/001_init.sql"), rec, sqlimport.Options{})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "001_init.sql", sqlimport.FS(fsys, "migrations/001_init.sql").Name())
}

func TestImport_ReaderIsClosed(t *testing.T) {
	src := &trackedSource{script: "SELECT 1;\n"}
	rc, err := src.Open()
	require.NoError(t, err)

	n, err := sqlimport.Import(context.Background(), sqlimport.Reader("stdin", rc), &recorder{}, sqlimport.Options{})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, src.closed)
}

// fakeExecer captures queries passed through NewExecutor.
type fakeExecer struct {
	queries []string
	err     error
}

func (f *fakeExecer) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	f.queries = append(f.queries, query)
	return nil, f.err
}

func TestNewExecutor(t *testing.T) {
	fx := &fakeExecer{}

	n, err := sqlimport.Import(context.Background(), threeStatements, sqlimport.NewExecutor(fx), sqlimport.Options{AbortOnError: true})

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, fx.queries, 3)

	fx = &fakeExecer{err: errors.New("no such table")}
	n, err = sqlimport.Import(context.Background(), threeStatements, sqlimport.NewExecutor(fx), sqlimport.Options{AbortOnError: true})

	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, sqlimport.ErrStatementFailed)
	assert.Contains(t, err.Error(), "script.sql:1")
}
