// Package emulator wraps a headless vt100 terminal that interprets raw
// escape-sequence output into a screen grid and cursor position. It is the
// sole source of truth for "what is on screen" - callers feed it decoded
// terminal output and read back display snapshots.
package emulator

import (
	"strings"

	"github.com/hinshun/vt10x"
)

// DefaultFG marks a cell whose foreground is not one of the 8 basic ANSI
// colors.
const DefaultFG = -1

// Emulator owns one vt10x terminal sized cols x rows. It is not safe for
// concurrent use; the owning session serializes access.
type Emulator struct {
	term vt10x.Terminal
	cols int
	rows int
}

// New creates an emulator with the given dimensions.
func New(cols, rows int) *Emulator {
	return &Emulator{
		term: vt10x.New(vt10x.WithSize(cols, rows)),
		cols: cols,
		rows: rows,
	}
}

// Feed advances the screen state from a chunk of decoded terminal output.
func (e *Emulator) Feed(text string) {
	_, _ = e.term.Write([]byte(text))
}

// Size returns the fixed terminal dimensions.
func (e *Emulator) Size() (cols, rows int) {
	return e.cols, e.rows
}

// Rows returns the current display as exactly rows strings of cols
// characters each, untrimmed.
func (e *Emulator) Rows() []string {
	e.term.Lock()
	defer e.term.Unlock()

	out := make([]string, e.rows)
	var sb strings.Builder
	for y := 0; y < e.rows; y++ {
		sb.Reset()
		for x := 0; x < e.cols; x++ {
			ch := e.term.Cell(x, y).Char
			if ch == 0 {
				ch = ' '
			}
			sb.WriteRune(ch)
		}
		out[y] = sb.String()
	}
	return out
}

// Cell returns the character at (x, y) and its foreground color as an ANSI
// index 0-7, or DefaultFG for anything else.
func (e *Emulator) Cell(x, y int) (ch rune, fg int) {
	e.term.Lock()
	defer e.term.Unlock()

	g := e.term.Cell(x, y)
	ch = g.Char
	if ch == 0 {
		ch = ' '
	}
	fg = DefaultFG
	if g.FG <= 7 {
		fg = int(g.FG)
	}
	return ch, fg
}

// Cursor returns the current cursor position.
func (e *Emulator) Cursor() (x, y int) {
	e.term.Lock()
	defer e.term.Unlock()

	c := e.term.Cursor()
	return c.X, c.Y
}
