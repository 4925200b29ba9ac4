// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlimport

import "strings"

// Comment markers. Detection is plain substring search, so a marker inside
// a quoted literal still starts a comment.
const (
	blockOpen  = "/*"
	blockClose = "*/"
	dashDash   = "-- " // a bare "--" is not a comment
	hash       = "#"
)

// stripComments removes comments from one physical line.
// inBlock reports whether the line starts inside an unterminated block
// comment; the returned flag reports whether it ends inside one.
func stripComments(line string, inBlock bool) (string, bool) {
	var sb strings.Builder
	rest := line
	for {
		if inBlock {
			end := strings.Index(rest, blockClose)
			if end == -1 {
				return sb.String(), true
			}
			rest = rest[end+len(blockClose):]
			inBlock = false
			continue
		}

		open := strings.Index(rest, blockOpen)
		lc := lineComment(rest)
		if open != -1 && (lc == -1 || open < lc) {
			sb.WriteString(rest[:open])
			rest = rest[open+len(blockOpen):]
			inBlock = true
			continue
		}
		if lc != -1 {
			sb.WriteString(rest[:lc])
			return sb.String(), false
		}
		sb.WriteString(rest)
		return sb.String(), false
	}
}

// lineComment returns the index of the earliest line-comment marker in s,
// or -1 if there is none.
func lineComment(s string) int {
	i := strings.Index(s, dashDash)
	if j := strings.Index(s, hash); j != -1 && (i == -1 || j < i) {
		i = j
	}
	return i
}
