// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mdhender/sqlimport"
	"github.com/mdhender/sqlimport/sqliteinit"
)

// env is the process surface the commands touch, replaceable in tests.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	lookup func(string) (string, bool)
}

// app carries state resolved by the root command to its subcommands.
type app struct {
	settings settings
	logger   *slog.Logger
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, e env) int {
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(e env) *cobra.Command {
	a := &app{logger: slog.Default()}

	var (
		configPath string
		database   string
		logLevel   string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           "sqlimport",
		Short:         "Run SQL scripts one statement at a time",
		Long:          "Split SQL scripts into statements and run them, in order, against a SQLite database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s := defaultSettings()

			if !cmd.Flags().Changed("config") {
				if v, ok := e.lookup("SQLIMPORT_CONFIG"); ok {
					configPath = v
				}
			}
			if configPath != "" {
				if err := s.loadFile(configPath); err != nil {
					return err
				}
			}
			if err := s.loadEnv(e.lookup); err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				s.Database = database
			}
			if cmd.Flags().Changed("log-level") {
				s.LogLevel = logLevel
			}
			if verbose {
				s.LogLevel = "debug"
			}

			lvl, err := s.level()
			if err != nil {
				return err
			}
			a.settings = s
			a.logger = slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: lvl}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&database, "db", ":memory:", "SQLite database (:memory: or a .db file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every statement")

	rootCmd.AddCommand(
		newImportCmd(a),
		newSplitCmd(a),
		newCreateCmd(a),
		newStatusCmd(a),
		newDeleteCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// dbConfig builds the sqliteinit configuration from the resolved settings.
// Relative database paths are made absolute.
func (a *app) dbConfig() (sqliteinit.Config, error) {
	cfg := sqliteinit.Config{
		Path:       a.settings.Database,
		Logger:     a.logger,
		AppVersion: fmt.Sprint(sqlimport.Version()),
	}
	if cfg.Path != ":memory:" {
		abs, err := filepath.Abs(cfg.Path)
		if err != nil {
			return cfg, err
		}
		cfg.Path = abs
	}
	if a.settings.Migrations != "" {
		cfg.Migrations = os.DirFS(a.settings.Migrations)
	}
	return cfg, nil
}

// open opens the configured database, applying pending migrations.
func (a *app) open(ctx context.Context) (*sql.DB, error) {
	cfg, err := a.dbConfig()
	if err != nil {
		return nil, err
	}
	return sqliteinit.Open(ctx, cfg)
}

// openSource maps a command-line argument to a script source; "-" is stdin.
func openSource(cmd *cobra.Command, name string) sqlimport.Source {
	if name == "-" {
		// hide any Close method so stdin stays open
		return sqlimport.Reader("stdin", struct{ io.Reader }{cmd.InOrStdin()})
	}
	return sqlimport.File(name)
}
