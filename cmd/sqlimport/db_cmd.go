// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdhender/sqlimport/sqliteinit"
)

func addMigrationsFlag(cmd *cobra.Command, a *app) {
	var dir string
	cmd.Flags().StringVar(&dir, "migrations", "", "Directory of YYYYMMDDHHMMSS_comment.sql scripts")
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("migrations") {
			a.settings.Migrations = dir
		}
		return nil
	}
}

func newCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a persistent database and apply migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.dbConfig()
			if err != nil {
				return err
			}
			if err := sqliteinit.Create(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", cfg.Path)
			return nil
		},
	}
	addMigrationsFlag(cmd, a)
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.dbConfig()
			if err != nil {
				return err
			}
			status, err := sqliteinit.Status(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database: %s\n", cfg.Path)
			if !status.IsInitialized {
				fmt.Fprintln(out, "initialized: false")
				return nil
			}
			fmt.Fprintln(out, "initialized: true")
			fmt.Fprintf(out, "schema version: %d\n", status.SchemaVersion)
			fmt.Fprintln(out, "applied:")
			for _, m := range status.Applied {
				fmt.Fprintf(out, "  %s (%d statements, %s)\n", m.Path, m.Statements, m.AppliedAt.Format(time.RFC3339))
			}
			if len(status.Pending) != 0 {
				fmt.Fprintln(out, "pending:")
				for _, p := range status.Pending {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}
			return nil
		},
	}
	addMigrationsFlag(cmd, a)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete a persistent database and its WAL files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.dbConfig()
			if err != nil {
				return err
			}
			if err := sqliteinit.Delete(cmd.Context(), cfg.Path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", cfg.Path)
			return nil
		},
	}
}
