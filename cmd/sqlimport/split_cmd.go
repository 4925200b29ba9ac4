// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mdhender/sqlimport"
)

func newSplitCmd(a *app) *cobra.Command {
	var multi bool

	cmd := &cobra.Command{
		Use:   "split FILE...",
		Short: "Print the statements a script would run",
		Long: `Print each statement with its starting line, without touching a database.

A fragment left without a terminator at the end of a script is reported
as a warning, since import would not run it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("multi") {
				a.settings.MultiStatementLines = multi
			}

			out := cmd.OutOrStdout()
			for _, name := range args {
				src := openSource(cmd, name)
				rc, err := src.Open()
				if err != nil {
					return fmt.Errorf("%s: %w", src.Name(), err)
				}

				sc := sqlimport.NewScanner(rc)
				sc.MultiStatementLines(a.settings.MultiStatementLines)
				n := 0
				for sc.Scan() {
					st := sc.Statement()
					fmt.Fprintf(out, "%s:%d: %s\n", src.Name(), st.Line, strings.Join(strings.Fields(st.Text), " "))
					n++
				}
				rc.Close()
				if err := sc.Err(); err != nil {
					return fmt.Errorf("%s: %w", src.Name(), err)
				}
				if tr := sc.Trailing(); tr.Text != "" {
					a.logger.Warn("unterminated statement will not run", "source", src.Name(), "line", tr.Line)
				}
				a.logger.Debug("split", "source", src.Name(), "lines", sc.Line(), "statements", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&multi, "multi", false, "Allow several statements on one line")
	return cmd
}
