// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteinit

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

//go:embed schema.sql
var schemaFS embed.FS

// Config holds database configuration options.
type Config struct {
	// Path to the database file, or ":memory:".
	// Persistent paths must be absolute and have a .db extension.
	Path string

	// Migrations holds application scripts named YYYYMMDDHHMMSS_comment.sql.
	// Optional. Each script is split into statements by sqlimport.
	Migrations fs.FS

	// Logger for operational logging. Uses slog.Default() if nil.
	Logger *slog.Logger

	// SkipMigrations opens the database without applying pending scripts.
	SkipMigrations bool

	// MigrationTimeout bounds migration execution time. Default: 90s.
	MigrationTimeout time.Duration

	// AppVersion is written to the config table when the schema is created.
	AppVersion string
}

func (cfg Config) defaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MigrationTimeout == 0 {
		cfg.MigrationTimeout = 90 * time.Second
	}
	return cfg
}

// MigrationStatus describes the current schema state.
type MigrationStatus struct {
	IsInitialized bool
	SchemaVersion int
	Applied       []AppliedMigration
	Pending       []string
}

// AppliedMigration describes a script recorded in schema_migrations.
type AppliedMigration struct {
	ID         int
	Comment    string
	Path       string
	Statements int
	AppliedAt  time.Time
}

// Open opens a database and applies pending migrations.
// In-memory databases are always created fresh; persistent databases
// must already exist (see Create).
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	cfg = cfg.defaults()

	if isMemory(cfg.Path) {
		cfg.Logger.Info("DB mode: in-memory")
		return openAndMigrate(ctx, cfg, memoryPragmas)
	}

	if err := validatePersistentPath(cfg.Path); err != nil {
		return nil, err
	}
	if !exists(cfg.Path) {
		return nil, fmt.Errorf("%s: database file not found (use Create to make a new database)", cfg.Path)
	}
	cfg.Logger.Info("DB mode: persistent", "path", cfg.Path)
	return openAndMigrate(ctx, cfg, persistentPragmas)
}

// Create creates a new persistent database file and applies migrations.
// It fails if the file already exists.
func Create(ctx context.Context, cfg Config) error {
	cfg = cfg.defaults()

	if isMemory(cfg.Path) {
		return errors.New("create requires a persistent path, not :memory:")
	}
	if err := validatePersistentPath(cfg.Path); err != nil {
		return err
	}
	if exists(cfg.Path) {
		return fmt.Errorf("%s: file already exists", cfg.Path)
	}

	cfg.Logger.Info("creating database", "path", cfg.Path)
	db, err := openAndMigrate(ctx, cfg, persistentPragmas)
	if err != nil {
		return err
	}
	return db.Close()
}

// Delete removes a database file along with its WAL sidecars.
// A missing file is not an error.
func Delete(_ context.Context, path string) error {
	if isMemory(path) {
		return errors.New("cannot delete in-memory database")
	}
	if err := validatePersistentPath(path); err != nil {
		return err
	}

	var errs []error
	for _, name := range []string{path, path + "-shm", path + "-wal"} {
		info, err := os.Stat(name)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			errs = append(errs, fmt.Errorf("%s: not a regular file", name))
			continue
		}
		if err := os.Remove(name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// Status reports migration state without modifying the database.
func Status(ctx context.Context, cfg Config) (*MigrationStatus, error) {
	cfg = cfg.defaults()
	cfg.SkipMigrations = true

	if isMemory(cfg.Path) {
		return nil, errors.New("cannot check status of in-memory database")
	}
	if err := validatePersistentPath(cfg.Path); err != nil {
		return nil, err
	}
	if !exists(cfg.Path) {
		return &MigrationStatus{}, nil
	}

	db, err := openAndMigrate(ctx, cfg, persistentPragmas)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return readStatus(ctx, db, cfg)
}

// openAndMigrate opens the database with the given pragmas and, unless
// disabled, brings its schema up to date.
func openAndMigrate(ctx context.Context, cfg Config, pragmas []pragma) (*sql.DB, error) {
	dsn := buildDSN(cfg.Path, pragmas)
	cfg.Logger.Debug("opening database", "driver", DriverName, "dsn", dsn)

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	// A single connection keeps scripts on one session and serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	if !cfg.SkipMigrations {
		migCtx, cancel := context.WithTimeout(ctx, cfg.MigrationTimeout)
		defer cancel()
		if err := migrate(migCtx, db, cfg); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	ok = true
	return db, nil
}

func validatePersistentPath(path string) error {
	switch {
	case !filepath.IsAbs(path):
		return fmt.Errorf("%s: persistent database path must be absolute", path)
	case filepath.Ext(path) != ".db":
		return fmt.Errorf("%s: expected .db extension", path)
	case isDir(path):
		return fmt.Errorf("%s: path is a directory", path)
	case !isDir(filepath.Dir(path)):
		return fmt.Errorf("%s: parent directory does not exist", filepath.Dir(path))
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func readStatus(ctx context.Context, db *sql.DB, cfg Config) (*MigrationStatus, error) {
	version, err := schemaVersion(ctx, db)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return &MigrationStatus{}, nil
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}
	status := &MigrationStatus{
		IsInitialized: true,
		SchemaVersion: *version,
		Applied:       applied,
	}

	if cfg.Migrations != nil {
		scripts, err := listMigrationFiles(cfg.Migrations, cfg.Logger)
		if err != nil {
			return nil, err
		}
		done := make(map[string]bool, len(applied))
		for _, a := range applied {
			done[a.Path] = true
		}
		for _, s := range scripts {
			if !done[s.Path] {
				status.Pending = append(status.Pending, s.Path)
			}
		}
	}
	return status, nil
}

// schemaVersion returns nil if the database has not been initialized.
func schemaVersion(ctx context.Context, db *sql.DB) (*int, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = 'schema.version'`).Scan(&value)
	if err != nil {
		if isNoSuchTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch schema.version: %w", err)
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid schema.version %q: %w", value, err)
	}
	return &v, nil
}

func appliedMigrations(ctx context.Context, db *sql.DB) ([]AppliedMigration, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, comment, path, statements, applied_at FROM schema_migrations ORDER BY id`)
	if err != nil {
		if isNoSuchTable(err) {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var result []AppliedMigration
	for rows.Next() {
		var m AppliedMigration
		var appliedAt int64
		if err := rows.Scan(&m.ID, &m.Comment, &m.Path, &m.Statements, &appliedAt); err != nil {
			return nil, err
		}
		m.AppliedAt = time.Unix(appliedAt, 0).UTC()
		result = append(result, m)
	}
	return result, rows.Err()
}

func isNoSuchTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
