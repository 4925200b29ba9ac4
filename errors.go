// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlimport

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnreadable indicates the script could not be opened or read.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrStatementFailed indicates the executor reported a failure while
	// AbortOnError was set.
	ErrStatementFailed = errors.New("statement failed")

	// ErrObserverFailed indicates the observer returned an error.
	ErrObserverFailed = errors.New("observer failed")

	// ErrInvalidCallback indicates an executor or observer that cannot be called.
	ErrInvalidCallback = errors.New("invalid callback")
)

// Kind classifies a fatal import error.
type Kind int

const (
	KindSourceUnreadable Kind = iota + 1
	KindStatementFailed
	KindObserverFailed
	KindInvalidCallback
)

func (k Kind) sentinel() error {
	switch k {
	case KindSourceUnreadable:
		return ErrSourceUnreadable
	case KindStatementFailed:
		return ErrStatementFailed
	case KindObserverFailed:
		return ErrObserverFailed
	case KindInvalidCallback:
		return ErrInvalidCallback
	}
	return nil
}

func (k Kind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is returned by Import when a run stops early.
// It matches the sentinel for its Kind with errors.Is, and also unwraps
// to the underlying cause.
type Error struct {
	Kind   Kind
	Source string // short name of the script
	Line   int    // 1-based start line of the statement, 0 if not applicable
	Err    error
}

func (e *Error) Error() string {
	where := e.Source
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.Source, e.Line)
	}
	msg := e.Kind.String()
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if where == "" {
		return msg
	}
	return where + ": " + msg
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
