// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build mattn

package sqliteinit_test

import _ "github.com/mattn/go-sqlite3"
