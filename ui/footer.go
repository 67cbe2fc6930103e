package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/mattn/go-runewidth"
)

const (
	footerHeight = 2
	fkeyLabelW   = 6
)

// fkey is one footer entry. num is the function key number used for click
// regions, 0 for keys that are not function keys.
type fkey struct {
	num   int
	key   string
	label string
}

var normalKeys = []fkey{
	{1, "F1", "Help"},
	{2, "F2", "Setup"},
	{3, "F3", "Search"},
	{4, "F4", "Filter"},
	{5, "F5", "Tree"},
	{6, "F6", "Sort"},
	{7, "F7", "Nice-"},
	{8, "F8", "Nice+"},
	{9, "F9", "Kill"},
	{10, "F10", "Quit"},
}

func (m Model) footerKeys() []fkey {
	switch m.mode {
	case searchMode:
		return []fkey{{0, "Enter", "Done"}, {0, "Esc", "Clear"}, {3, "F3", "Next"}}
	case filterMode:
		return []fkey{{0, "Enter", "Done"}, {0, "Esc", "Clear"}}
	case helpMode, environmentMode, commandWrapMode:
		return []fkey{{0, "Esc", "Close"}, {0, "↑↓", "Scroll"}}
	case killMode:
		return []fkey{{0, "Enter", "Kill"}, {0, "9", "Force"}, {0, "s", "Signal"}, {0, "Esc", "Cancel"}}
	case signalSelectMode:
		return []fkey{{0, "Enter", "Kill"}, {0, "Esc", "Back"}}
	case priorityMode:
		return []fkey{{0, "↑↓", "Choose"}, {0, "Enter", "Set"}, {0, "Esc", "Cancel"}}
	case setupMode:
		return []fkey{{0, "Enter", "Change"}, {0, "Esc", "Done"}}
	case processInfoMode:
		return []fkey{{0, "Esc", "Close"}}
	case sortSelectMode, userSelectMode, colorSchemeMode:
		return []fkey{{0, "Enter", "Select"}, {0, "Esc", "Cancel"}}
	case columnConfigMode:
		return []fkey{{0, "Space", "Toggle"}, {0, "[ ]", "Move"}, {0, "Esc", "Done"}}
	case affinityMode:
		return []fkey{{0, "Space", "Toggle"}, {0, "a", "All"}, {0, "n", "None"}, {0, "Enter", "Apply"}, {0, "Esc", "Cancel"}}
	default:
		return normalKeys
	}
}

func (m Model) drawFooter(c *Canvas, area Rect) {
	if area.Empty() {
		return
	}
	t := m.theme
	m.bounds.Add(area, Element{Kind: ElemFooter})

	x := area.X
	for _, k := range m.footerKeys() {
		if x >= area.X+area.W {
			break
		}
		start := x
		x += c.Text(x, area.Y, k.key, t.key(), area.X+area.W-x)
		x += c.Text(x, area.Y, runewidth.FillRight(k.label, fkeyLabelW), t.text(), area.X+area.W-x)
		if k.num > 0 {
			m.bounds.Add(Rect{X: start, Y: area.Y, W: x - start, H: 1}, Element{Kind: ElemFunctionKey, Index: k.num})
		}
	}

	if area.H > 1 {
		m.drawStatusLine(c, Rect{X: area.X, Y: area.Y + 1, W: area.W, H: 1})
	}
}

// drawStatusLine shows the search or filter editor while one is open and
// the active view state otherwise.
func (m Model) drawStatusLine(c *Canvas, r Rect) {
	t := m.theme
	switch m.mode {
	case searchMode:
		drawInput(c, r, "Search: ", m.searchInput, t)
		return
	case filterMode:
		drawInput(c, r, "Filter: ", m.filterInput, t)
		return
	}

	var spans []span
	add := func(text string, st Style) { spans = append(spans, span{text, st}) }

	if m.statusText != "" {
		add(m.statusText+"  ", Style{FG: t.CPULow, Bold: true})
	}
	if m.view.Paused {
		add("[PAUSED] ", Style{FG: t.CPUHigh, Bold: true})
	}
	if pid, ok := m.view.Following(); ok {
		add(fmt.Sprintf("[Follow:%d] ", pid), Style{FG: t.LargeNumber})
	}
	if m.view.PIDSearchActive(m.now()) {
		add("PID: "+m.view.PIDSearchBuffer()+" ", Style{FG: t.Label})
	}
	if u := m.view.UserFilter(); u != "" {
		add("User: "+u+" ", Style{FG: t.LargeNumber})
	}
	if f := m.view.Filter(); f != "" {
		add("Filter: ", Style{FG: t.CPUMid})
		add(f+"  ", t.text())
	}
	if s := m.view.Search(); s != "" {
		add("Search: ", Style{FG: t.Label})
		add(s+"  ", t.text())
	}
	if m.view.TreeView() {
		add("[Tree] ", Style{FG: t.CPULow})
	}
	if n := len(m.view.TaggedPIDs()); n > 0 {
		add(fmt.Sprintf("[%d tagged] ", n), Style{FG: t.Tagged})
	}
	if m.exec.ReadOnly() {
		add("[readonly] ", t.dim())
	}
	dir := "▼"
	if !m.view.Sorter.Descending {
		dir = "▲"
	}
	add("Sort: "+m.view.Sorter.Column.Name()+dir, t.dim())
	drawSpans(c, r, spans...)
}

// drawInput draws a line editor's value with a block cursor. The editor's
// own View output carries escape sequences, so the canvas gets the raw
// value instead.
func drawInput(c *Canvas, r Rect, prompt string, in textinput.Model, t Theme) {
	x := r.X + c.Text(r.X, r.Y, prompt, Style{FG: t.Label, Bold: true}, r.W)
	val := []rune(in.Value())
	pos := min(in.Position(), len(val))
	x += c.Text(x, r.Y, string(val[:pos]), t.text(), r.X+r.W-x)
	cur := " "
	if pos < len(val) {
		cur = string(val[pos])
	}
	x += c.Text(x, r.Y, cur, Style{FG: black, BG: t.Text}, r.X+r.W-x)
	if pos+1 < len(val) {
		c.Text(x, r.Y, string(val[pos+1:]), t.text(), r.X+r.W-x)
	}
}
