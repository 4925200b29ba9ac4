// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// settings are the values every command resolves before it runs.
// Precedence: flag > environment > config file > default.
type settings struct {
	Database            string `yaml:"database"`
	Migrations          string `yaml:"migrations"`
	ContinueOnError     bool   `yaml:"continue-on-error"`
	MultiStatementLines bool   `yaml:"multi-statement-lines"`
	LogLevel            string `yaml:"log-level"`
}

func defaultSettings() settings {
	return settings{
		Database: ":memory:",
		LogLevel: "info",
	}
}

// loadFile overlays the keys present in the YAML file at path.
func (s *settings) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays SQLIMPORT_* variables. Every malformed value is
// reported, not just the first.
func (s *settings) loadEnv(lookup func(string) (string, bool)) error {
	var errs []error

	if v, ok := lookup("SQLIMPORT_DATABASE"); ok && v != "" {
		s.Database = v
	}
	if v, ok := lookup("SQLIMPORT_MIGRATIONS"); ok && v != "" {
		s.Migrations = v
	}
	if v, ok := lookup("SQLIMPORT_LOG_LEVEL"); ok && v != "" {
		s.LogLevel = v
	}
	for _, f := range []struct {
		key string
		dst *bool
	}{
		{"SQLIMPORT_CONTINUE_ON_ERROR", &s.ContinueOnError},
		{"SQLIMPORT_MULTI_STATEMENT_LINES", &s.MultiStatementLines},
	} {
		key, dst := f.key, f.dst
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, errors.New("invalid bool for "+key+": "+v))
			continue
		}
		*dst = b
	}

	return errors.Join(errs...)
}

// level parses LogLevel as a slog level name.
func (s settings) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
