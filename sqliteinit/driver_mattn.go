// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build mattn

package sqliteinit

import "fmt"

// DriverName is the database/sql driver registered by github.com/mattn/go-sqlite3.
const DriverName = "sqlite3"

var memoryPragmas = []pragma{
	{"_foreign_keys", "1"},
	{"_busy_timeout", "5000"},
	{"_journal_mode", "MEMORY"},
	{"_synchronous", "OFF"},
}

var persistentPragmas = []pragma{
	{"_foreign_keys", "1"},
	{"_busy_timeout", "5000"},
	{"_journal_mode", "WAL"},
	{"_synchronous", "NORMAL"},
	{"_txlock", "immediate"},
}

// formatPragma renders one pragma in mattn syntax: _name=value.
func formatPragma(p pragma) string {
	return fmt.Sprintf("%s=%s", p.name, p.value)
}
