// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlimport

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// terminator ends a statement when it appears outside a comment.
const terminator = ';'

// Statement is one complete SQL statement with comments removed.
type Statement struct {
	// Line is the 1-based line on which the statement's first
	// non-comment character appears.
	Line int
	// Text is the statement without its terminator, trimmed of
	// surrounding white space.
	Text string
}

// Scanner splits a SQL script into statements.
//
// It reads the script one physical line at a time, so the source may be
// streamed. A Scanner holds the state of a single pass and must not be
// reused.
type Scanner struct {
	r     *bufio.Reader
	multi bool

	line    int
	inBlock bool
	pending strings.Builder
	start   int

	ready []Statement
	stmt  Statement
	err   error
	eof   bool
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// MultiStatementLines controls what happens to text that follows a
// terminator on the same line. By default it is discarded; when on is
// true it begins the next statement. It must be called before Scan.
func (s *Scanner) MultiStatementLines(on bool) {
	s.multi = on
}

// Scan advances to the next complete statement, which is then available
// through Statement. It returns false at the end of input or on a read
// error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	for len(s.ready) == 0 {
		if s.eof {
			return false
		}
		text, err := s.r.ReadString('\n')
		if err != nil {
			s.eof = true
			if err != io.EOF {
				s.err = fmt.Errorf("line %d: %w", s.line+1, err)
				return false
			}
			if text == "" {
				return false
			}
		}
		s.line++
		s.consume(strings.TrimRight(text, "\r\n"))
	}
	s.stmt, s.ready = s.ready[0], s.ready[1:]
	return true
}

// Statement returns the statement found by the most recent call to Scan.
func (s *Scanner) Statement() Statement {
	return s.stmt
}

// Err returns the first read error encountered, or nil at a clean end of input.
func (s *Scanner) Err() error {
	return s.err
}

// Line returns the number of physical lines read so far.
func (s *Scanner) Line() int {
	return s.line
}

// Trailing returns the unterminated fragment left at the end of input.
// The fragment is never returned by Scan. Text is empty if the script
// ended cleanly or has not been fully scanned.
func (s *Scanner) Trailing() Statement {
	if !s.eof || s.pending.Len() == 0 {
		return Statement{}
	}
	return Statement{Line: s.start, Text: strings.TrimSpace(s.pending.String())}
}

// consume strips comments from one line and feeds the result to the
// pending statement.
func (s *Scanner) consume(line string) {
	content, inBlock := stripComments(line, s.inBlock)
	s.inBlock = inBlock
	for {
		end := strings.IndexByte(content, terminator)
		if end == -1 {
			s.append(content)
			if s.pending.Len() != 0 {
				s.pending.WriteByte('\n')
			}
			return
		}
		s.append(content[:end])
		s.flush()
		if !s.multi {
			return
		}
		content = content[end+1:]
	}
}

// append adds text to the pending statement. Blank text never starts a
// statement, so the start line is the line of the first real content.
func (s *Scanner) append(text string) {
	if s.pending.Len() == 0 {
		if strings.TrimSpace(text) == "" {
			return
		}
		s.start = s.line
	}
	s.pending.WriteString(text)
}

// flush queues the pending statement and resets the buffer.
// Empty statements (a lone terminator) are dropped.
func (s *Scanner) flush() {
	text := strings.TrimSpace(s.pending.String())
	s.pending.Reset()
	if text != "" {
		s.ready = append(s.ready, Statement{Line: s.start, Text: text})
	}
	s.start = 0
}

// Split reads the whole script and returns its complete statements along
// with any unterminated trailing fragment.
func Split(r io.Reader) ([]Statement, Statement, error) {
	sc := NewScanner(r)
	var stmts []Statement
	for sc.Scan() {
		stmts = append(stmts, sc.Statement())
	}
	if err := sc.Err(); err != nil {
		return stmts, Statement{}, err
	}
	return stmts, sc.Trailing(), nil
}
