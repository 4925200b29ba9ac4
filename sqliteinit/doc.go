// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package sqliteinit opens SQLite databases for sqlimport and keeps their
// schema current.
//
// Databases default to in-memory, which suits dry runs and tests.
// Persistent databases need an absolute path with a .db extension and are
// made with Create. Every Open applies the package's own schema.sql and
// any pending application migrations; both are split into statements by
// sqlimport and applied one script per transaction, so a failing
// statement is reported with its file and line and the script is rolled
// back.
//
// # Basic Usage
//
//	db, err := sqliteinit.Open(ctx, sqliteinit.Config{Path: ":memory:"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	n, err := sqliteinit.ImportFile(ctx, db, "seed.sql", sqlimport.Options{AbortOnError: true})
//
// # Driver Support
//
// The DSN syntax and driver name follow the build:
//   - modernc.org/sqlite (default, pure Go, driver "sqlite")
//   - github.com/mattn/go-sqlite3 (CGO, -tags mattn, driver "sqlite3")
//
// The application imports the matching driver package.
//
// # Migration Files
//
// Application scripts are named YYYYMMDDHHMMSS_comment.sql and applied in
// lexicographic order. The timestamp becomes the schema version. Because
// scripts go through the statement splitter, each statement must end with
// a semicolon at the end of its last line; trigger bodies with embedded
// semicolons are not supported.
package sqliteinit
