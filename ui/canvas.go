package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Style is the attribute set of one cell. An empty colour leaves the
// terminal default in place.
type Style struct {
	FG   lipgloss.Color
	BG   lipgloss.Color
	Bold bool
	Dim  bool
}

func (s Style) toLipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.FG != "" {
		st = st.Foreground(s.FG)
	}
	if s.BG != "" {
		st = st.Background(s.BG)
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Dim {
		st = st.Faint(true)
	}
	return st
}

// over lays s on top of base: set fields in s win.
func (s Style) over(base Style) Style {
	if s.FG == "" {
		s.FG = base.FG
	}
	if s.BG == "" {
		s.BG = base.BG
	}
	s.Bold = s.Bold || base.Bold
	s.Dim = s.Dim || base.Dim
	return s
}

// continuation marks the second column of a double-width rune.
const continuation rune = -1

type cell struct {
	r  rune
	st Style
}

// Canvas is a grid of styled cells written by the renderers and
// serialised once per frame.
type Canvas struct {
	w, h  int
	cells []cell
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(0, w), max(0, h)
	c := &Canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

func (c *Canvas) Width() int  { return c.w }
func (c *Canvas) Height() int { return c.h }

func (c *Canvas) at(x, y int) *cell {
	return &c.cells[y*c.w+x]
}

// Fill paints r with spaces in st.
func (c *Canvas) Fill(r Rect, st Style) {
	for y := max(0, r.Y); y < min(c.h, r.Y+r.H); y++ {
		for x := max(0, r.X); x < min(c.w, r.X+r.W); x++ {
			*c.at(x, y) = cell{r: ' ', st: st}
		}
	}
}

// Text writes s at (x, y), clipped to limit columns and the canvas edge.
// It returns the number of columns written.
func (c *Canvas) Text(x, y int, s string, st Style, limit int) int {
	if y < 0 || y >= c.h || x >= c.w {
		return 0
	}
	end := min(c.w, x+limit)
	col := x
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > end {
			// A wide rune that does not fit leaves a blank.
			if col < end {
				*c.at(col, y) = cell{r: ' ', st: st}
				col++
			}
			break
		}
		if col >= 0 {
			*c.at(col, y) = cell{r: r, st: st}
			if rw == 2 {
				*c.at(col+1, y) = cell{r: continuation, st: st}
			}
		}
		col += rw
	}
	return max(0, col-x)
}

// Put writes s at (x, y) with no limit other than the canvas edge.
func (c *Canvas) Put(x, y int, s string, st Style) int {
	return c.Text(x, y, s, st, c.w-x)
}

// Restyle overlays st on every cell of r, keeping the runes.
func (c *Canvas) Restyle(r Rect, st Style) {
	for y := max(0, r.Y); y < min(c.h, r.Y+r.H); y++ {
		for x := max(0, r.X); x < min(c.w, r.X+r.W); x++ {
			cl := c.at(x, y)
			cl.st = st.over(cl.st)
		}
	}
}

// Row returns the plain text of row y.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.h {
		return ""
	}
	var b strings.Builder
	for x := 0; x < c.w; x++ {
		if r := c.at(x, y).r; r != continuation {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Render serialises the grid, emitting one lipgloss render per run of
// equally styled cells.
func (c *Canvas) Render() string {
	styles := make(map[Style]lipgloss.Style)
	var out, run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		var cur Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == (Style{}) {
				out.WriteString(run.String())
			} else {
				ls, ok := styles[cur]
				if !ok {
					ls = cur.toLipgloss()
					styles[cur] = ls
				}
				out.WriteString(ls.Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.at(x, y)
			if cl.r == continuation {
				continue
			}
			if cl.st != cur {
				flush()
				cur = cl.st
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return out.String()
}
