// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestSettings_Defaults(t *testing.T) {
	s := defaultSettings()

	assert.Equal(t, ":memory:", s.Database)
	assert.False(t, s.ContinueOnError)
	lvl, err := s.level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestSettings_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqlimport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database: /var/lib/app/app.db
continue-on-error: true
log-level: debug
`), 0o600))

	s := defaultSettings()
	require.NoError(t, s.loadFile(path))
	assert.Equal(t, "/var/lib/app/app.db", s.Database)
	assert.True(t, s.ContinueOnError)

	require.NoError(t, s.loadEnv(lookupMap(map[string]string{
		"SQLIMPORT_DATABASE":          "/tmp/override.db",
		"SQLIMPORT_CONTINUE_ON_ERROR": "false",
	})))
	assert.Equal(t, "/tmp/override.db", s.Database)
	assert.False(t, s.ContinueOnError)
	assert.Equal(t, "debug", s.LogLevel, "keys absent from env keep the file value")
}

func TestSettings_EnvErrorsJoined(t *testing.T) {
	s := defaultSettings()

	err := s.loadEnv(lookupMap(map[string]string{
		"SQLIMPORT_CONTINUE_ON_ERROR":     "maybe",
		"SQLIMPORT_MULTI_STATEMENT_LINES": "sometimes",
	}))

	require.Error(t, err)
	assert.Equal(t, "invalid bool for SQLIMPORT_CONTINUE_ON_ERROR: maybe\n"+
		"invalid bool for SQLIMPORT_MULTI_STATEMENT_LINES: sometimes", err.Error())
}

func TestSettings_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed"), 0o600))

	s := defaultSettings()
	assert.Error(t, s.loadFile(path))
	assert.Error(t, s.loadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestRootCmd_ConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sqlimport.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("continue-on-error: true\n"), 0o600))
	script := writeScript(t, dir, "seed.sql", seedScript)

	res := runCLI(t, map[string]string{"SQLIMPORT_CONFIG": cfgPath}, "", "import", script)

	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "seed.sql: 3 statements, 1 failed\n", res.stdout)
}
