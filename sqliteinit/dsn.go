// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteinit

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// pragma is a connection setting carried in the DSN.
type pragma struct {
	name  string
	value string
}

// memorySeq names in-memory databases so that every Open gets its own.
var memorySeq atomic.Uint64

// buildDSN returns a DSN for path in the syntax of the compiled-in driver.
//
// Each in-memory path gets a new named database with a shared cache, so
// pooled connections of one handle see the same data while two handles
// never do. Query parameters on a "file::memory:?..." path are kept,
// except mode and cache, which the name depends on.
func buildDSN(path string, pragmas []pragma) string {
	var params []string
	base := "file:" + path
	if isMemory(path) {
		base = fmt.Sprintf("file:sqlimport-mem-%d", memorySeq.Add(1))
		params = append(params, "mode=memory", "cache=shared")
		params = append(params, memoryParams(path)...)
	}
	for _, p := range pragmas {
		params = append(params, formatPragma(p))
	}
	if len(params) == 0 {
		return base
	}
	return base + "?" + strings.Join(params, "&")
}

// memoryParams returns the caller's query parameters from an in-memory path.
func memoryParams(path string) []string {
	_, query, ok := strings.Cut(path, "?")
	if !ok {
		return nil
	}
	var params []string
	for _, kv := range strings.Split(query, "&") {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "", "mode", "cache":
			continue
		}
		params = append(params, kv)
	}
	return params
}

// isMemory reports whether path names an in-memory database.
func isMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}
