// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteinit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdhender/sqlimport"
)

// Import runs a SQL script against db. The run holds one connection for
// its whole duration so session state (temp tables, pragmas) carries from
// statement to statement. No transaction is opened: statements that
// succeed before a failure stay applied.
func Import(ctx context.Context, db *sql.DB, src sqlimport.Source, opts sqlimport.Options) (int, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("conn: %w", err)
	}
	defer conn.Close()

	return sqlimport.Import(ctx, src, sqlimport.NewExecutor(conn), opts)
}

// ImportFile runs the script at path against db. See Import.
func ImportFile(ctx context.Context, db *sql.DB, path string, opts sqlimport.Options) (int, error) {
	return Import(ctx, db, sqlimport.File(path), opts)
}
