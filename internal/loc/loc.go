// Package loc tracks source locations for diagnostics and pretty-printing.
package loc

import "fmt"

// A Range is a start and end byte offset into a Files table.
type Range [2]int

// A Loc is a human-readable file location.
type Loc struct {
	Path string
	Line [2]int
	Col  [2]int
}

func (l Loc) String() string {
	if l.Line[0] == l.Line[1] && l.Col[0] == l.Col[1] {
		return fmt.Sprintf("%s:%d.%d", l.Path, l.Line[0], l.Col[0])
	}
	return fmt.Sprintf("%s:%d.%d-%d.%d", l.Path, l.Line[0], l.Col[0], l.Line[1], l.Col[1])
}

// Files tracks byte offsets for a set of source files
// so that a Range can be resolved back to a line and column.
type Files []File

// A File is a single registered file within a Files.
type File struct {
	Path  string
	Offs  int
	Len   int
	Lines []int
}

// Len returns the total length of all registered files.
func (fs Files) Len() int {
	if len(fs) == 0 {
		return 0
	}
	last := fs[len(fs)-1]
	return last.Offs + last.Len
}

// Add registers a file's path and text, recording newline offsets.
func (fs *Files) Add(path, text string) {
	var lines []int
	offs := fs.Len()
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, offs+i)
		}
	}
	*fs = append(*fs, File{Path: path, Offs: offs, Len: len(text), Lines: lines})
}

// Loc resolves a Range to a Loc, or returns nil if the range is out of bounds.
func (fs Files) Loc(r Range) *Loc {
	if fs == nil || r[0] < 0 || r[1] > fs.Len() {
		return nil
	}
	var l Loc
	var spath, epath string
	spath, l.Line[0], l.Col[0] = fs.loc1(r[0])
	epath, l.Line[1], l.Col[1] = fs.loc1(r[1])
	if spath != epath {
		panic("impossible: range spans two files")
	}
	l.Path = spath
	return &l
}

func (fs Files) loc1(p int) (string, int, int) {
	file := fs[0]
	for _, f := range fs {
		if f.Offs > p {
			break
		}
		file = f
	}
	line, col1 := 1, file.Offs-1
	for _, nl := range file.Lines {
		if nl >= p {
			break
		}
		col1 = nl
		line++
	}
	return file.Path, line, p - col1
}
