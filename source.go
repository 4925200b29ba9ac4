// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlimport

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source is a SQL script that can be opened for a single import run.
type Source interface {
	// Name is the short name used in error messages.
	Name() string
	// Open returns a reader over the script. Import closes it on every
	// exit path.
	Open() (io.ReadCloser, error)
}

// File returns a Source backed by a file on disk.
func File(name string) Source {
	return fileSource(name)
}

type fileSource string

func (f fileSource) Name() string {
	return filepath.Base(string(f))
}

func (f fileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

// FS returns a Source backed by a file in fsys, such as an embed.FS.
func FS(fsys fs.FS, name string) Source {
	return fsSource{fsys: fsys, name: name}
}

type fsSource struct {
	fsys fs.FS
	name string
}

func (f fsSource) Name() string {
	return path.Base(f.name)
}

func (f fsSource) Open() (io.ReadCloser, error) {
	return f.fsys.Open(f.name)
}

// Lines returns a Source over lines that are already in memory.
func Lines(name string, lines ...string) Source {
	return linesSource{name: name, lines: lines}
}

type linesSource struct {
	name  string
	lines []string
}

func (l linesSource) Name() string {
	return l.name
}

func (l linesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(strings.Join(l.lines, "\n"))), nil
}

// Reader returns a Source that streams from r. If r is an io.Closer it is
// closed when the run ends. A Reader source can be imported only once.
func Reader(name string, r io.Reader) Source {
	return readerSource{name: name, r: r}
}

type readerSource struct {
	name string
	r    io.Reader
}

func (rs readerSource) Name() string {
	return rs.name
}

func (rs readerSource) Open() (io.ReadCloser, error) {
	if rc, ok := rs.r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(rs.r), nil
}
