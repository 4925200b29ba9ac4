// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteinit

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/mdhender/sqlimport"
)

// migrationScript is one application script found in Config.Migrations.
type migrationScript struct {
	ID      int
	Comment string
	Path    string
}

// reMigrationFile matches YYYYMMDDHHMMSS_comment.sql
var reMigrationFile = regexp.MustCompile(`^(\d{14})_(.+)\.sql$`)

// migrate creates the infrastructure tables if needed, then applies every
// application script not yet recorded in schema_migrations.
func migrate(ctx context.Context, db *sql.DB, cfg Config) error {
	version, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if version == nil {
		cfg.Logger.Debug("initializing schema")
		schema := migrationScript{ID: 0, Comment: "init", Path: "schema.sql"}
		if err := applyScript(ctx, db, sqlimport.FS(schemaFS, schema.Path), schema, cfg); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	if cfg.Migrations == nil {
		return nil
	}

	scripts, err := listMigrationFiles(cfg.Migrations, cfg.Logger)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("fetch applied: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, a := range applied {
		done[a.Path] = true
	}

	for _, s := range scripts {
		if done[s.Path] {
			continue
		}
		cfg.Logger.Debug("applying migration", "path", s.Path)
		if err := applyScript(ctx, db, sqlimport.FS(cfg.Migrations, s.Path), s, cfg); err != nil {
			return fmt.Errorf("apply %s: %w", s.Path, err)
		}
	}
	return nil
}

// applyScript runs one script statement by statement inside a transaction
// and records it. The first failing statement rolls the whole script back.
func applyScript(ctx context.Context, db *sql.DB, src sqlimport.Source, s migrationScript, cfg Config) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	n, err := sqlimport.Import(ctx, src, sqlimport.NewExecutor(tx), sqlimport.Options{
		AbortOnError: true,
		Observer:     logStatements(cfg.Logger, src.Name()),
	})
	if err != nil {
		return err
	}

	ts := time.Now().UTC().Unix()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO schema_migrations (id, comment, path, statements, applied_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Comment, s.Path, n, ts, ts, ts)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}

	if s.ID == 0 {
		if cfg.AppVersion != "" {
			if err := setConfig(ctx, tx, "app.version", cfg.AppVersion, ts); err != nil {
				return err
			}
			if err := setConfig(ctx, tx, "db.created_at", strconv.FormatInt(ts, 10), ts); err != nil {
				return err
			}
		}
	} else if err := setConfig(ctx, tx, "schema.version", strconv.Itoa(s.ID), ts); err != nil {
		return err
	}

	return tx.Commit()
}

// setConfig updates an existing config key and verifies exactly one row changed.
func setConfig(ctx context.Context, tx *sql.Tx, key, value string, ts int64) error {
	res, err := tx.ExecContext(ctx, `UPDATE config SET value = ?, updated_at = ? WHERE key = ?`, value, ts, key)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows != 1 {
		return fmt.Errorf("set %s: affected %d rows, expected 1", key, rows)
	}
	return nil
}

// logStatements returns an observer that traces each statement at debug level.
func logStatements(logger *slog.Logger, source string) sqlimport.Observer {
	return sqlimport.ObserverFunc(func(line int, _ string, ok bool) error {
		logger.Debug("statement", "source", source, "line", line, "ok", ok)
		return nil
	})
}

// listMigrationFiles returns the scripts in migrationsFS sorted by path.
func listMigrationFiles(migrationsFS fs.FS, logger *slog.Logger) ([]migrationScript, error) {
	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return nil, err
	}

	var scripts []migrationScript
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		m := reMigrationFile.FindStringSubmatch(name)
		if m == nil {
			logger.Debug("skipping non-migration file", "name", name)
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid migration id in %q: %w", name, err)
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate migration ID %d: %q and %q", id, prev, name)
		}
		seen[id] = name
		scripts = append(scripts, migrationScript{ID: id, Comment: m[2], Path: name})
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Path < scripts[j].Path
	})
	return scripts, nil
}
