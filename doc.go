// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package sqlimport splits SQL scripts into statements and runs them, one
// at a time and in file order, through a caller supplied Executor.
//
// # Script Format
//
// Three comment styles are removed before statements are assembled:
//   - block comments, which may span lines: /* ... */
//   - double hyphen followed by a space, to end of line: -- comment
//   - hash, to end of line: # comment
//
// A bare "--" without a following space is not a comment. Markers are
// found by plain substring search, not by a SQL lexer, so a marker or a
// terminator inside a quoted literal is still treated as one.
//
// A semicolon outside a comment ends a statement. Only one statement ends
// per physical line: text after the semicolon is discarded unless
// Options.MultiStatementLines is set. A statement may span many lines and
// is reported with the line of its first non-comment character. Text left
// without a terminator at the end of the script is never executed; a
// Scanner exposes it through Trailing.
//
// # Basic Usage
//
//	conn, _ := db.Conn(ctx)
//	defer conn.Close()
//	n, err := sqlimport.ImportFile(ctx, "seed.sql", sqlimport.NewExecutor(conn), sqlimport.Options{
//	    AbortOnError: true,
//	})
//
// # Errors
//
// Import returns an *Error for fatal conditions. Match the kind with
// errors.Is against ErrSourceUnreadable, ErrStatementFailed,
// ErrObserverFailed or ErrInvalidCallback. When AbortOnError is false a
// failing statement is counted and reported to the Observer, and the run
// continues.
package sqlimport
