// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlimport

import (
	"context"
	"errors"
	"reflect"
)

// Options controls an import run.
type Options struct {
	// Observer, if set, is called after every attempted statement.
	Observer Observer

	// AbortOnError stops the run at the first statement the executor
	// rejects. When false, failed statements are counted and skipped.
	AbortOnError bool

	// MultiStatementLines starts a new statement with any text that
	// follows a terminator on the same line. By default that text is
	// discarded.
	MultiStatementLines bool
}

// ImportFile imports the script at path. See Import.
func ImportFile(ctx context.Context, path string, exec Executor, opts Options) (int, error) {
	return Import(ctx, File(path), exec, opts)
}

// Import runs every complete statement of src through exec, strictly in
// script order, and returns the number of statements attempted.
//
// An unterminated fragment at the end of the script is not executed.
// On a fatal condition Import returns the count so far and an *Error.
func Import(ctx context.Context, src Source, exec Executor, opts Options) (int, error) {
	if isNil(src) {
		return 0, &Error{Kind: KindSourceUnreadable, Err: errors.New("source is nil")}
	}
	if !callable(exec) {
		return 0, &Error{Kind: KindInvalidCallback, Source: src.Name(), Err: errors.New("executor is nil")}
	}
	if opts.Observer != nil && !callable(opts.Observer) {
		return 0, &Error{Kind: KindInvalidCallback, Source: src.Name(), Err: errors.New("observer is nil")}
	}

	rc, err := src.Open()
	if err != nil {
		return 0, &Error{Kind: KindSourceUnreadable, Source: src.Name(), Err: err}
	}
	defer rc.Close()

	sc := NewScanner(rc)
	sc.MultiStatementLines(opts.MultiStatementLines)

	executed := 0
	for sc.Scan() {
		stmt := sc.Statement()
		execErr := exec.Exec(ctx, stmt.Text)
		executed++

		if opts.Observer != nil {
			if err := opts.Observer.Observe(stmt.Line, stmt.Text, execErr == nil); err != nil {
				return executed, &Error{Kind: KindObserverFailed, Source: src.Name(), Line: stmt.Line, Err: err}
			}
		}
		if execErr != nil && opts.AbortOnError {
			return executed, &Error{Kind: KindStatementFailed, Source: src.Name(), Line: stmt.Line, Err: execErr}
		}
	}
	if err := sc.Err(); err != nil {
		return executed, &Error{Kind: KindSourceUnreadable, Source: src.Name(), Err: err}
	}

	return executed, nil
}

// callable reports whether v can be invoked. A typed nil function stored
// in an interface is not, nor is an executor built over a nil Execer.
func callable(v any) bool {
	switch f := v.(type) {
	case nil:
		return false
	case ExecutorFunc:
		return f != nil
	case ObserverFunc:
		return f != nil
	case execer:
		return !isNil(f.e)
	}
	return true
}

// isNil reports whether v is nil or holds a nil pointer, func, map,
// chan, slice or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
