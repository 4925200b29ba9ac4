// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build !mattn

package sqliteinit

import "fmt"

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

var memoryPragmas = []pragma{
	{"foreign_keys", "ON"},
	{"busy_timeout", "5000"},
	{"journal_mode", "MEMORY"},
	{"synchronous", "OFF"},
	{"temp_store", "MEMORY"},
}

var persistentPragmas = []pragma{
	{"foreign_keys", "ON"},
	{"busy_timeout", "5000"},
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
}

// formatPragma renders one pragma in modernc syntax: _pragma=name(value).
func formatPragma(p pragma) string {
	return fmt.Sprintf("_pragma=%s(%s)", p.name, p.value)
}
