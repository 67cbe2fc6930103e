package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/faratech/htop-win/model"
)

// tableColumn is a visible column with its resolved geometry.
type tableColumn struct {
	col model.Column
	x   int
	w   int
}

// layoutColumns places the visible columns left to right with one space
// between them. Command takes whatever width remains, at least its minimum;
// columns starting past the right edge are dropped.
func layoutColumns(cols []model.Column, width int) []tableColumn {
	fixed := 0
	for _, c := range cols {
		if c != model.ColCommand {
			fixed += c.Width() + 1
		}
	}
	out := make([]tableColumn, 0, len(cols))
	x := 0
	for _, c := range cols {
		if x >= width {
			break
		}
		w := c.Width()
		if c == model.ColCommand {
			w = max(w, width-fixed)
		}
		w = min(w, width-x)
		out = append(out, tableColumn{col: c, x: x, w: w})
		x += w + 1
	}
	return out
}

func (m Model) drawTable(c *Canvas, area Rect) {
	if area.Empty() {
		return
	}
	t := m.theme
	cols := layoutColumns(m.columns, area.W)

	// Column header row.
	head := Rect{X: area.X, Y: area.Y, W: area.W, H: 1}
	c.Fill(head, t.columns())
	for _, tc := range cols {
		title := tc.col.Name()
		st := t.columns()
		if tc.col == m.view.Sorter.Column {
			st = t.sortedColumn()
			if m.view.Sorter.Descending {
				title += "▼"
			} else {
				title += "▲"
			}
		}
		r := Rect{X: area.X + tc.x, Y: area.Y, W: tc.w, H: 1}
		c.Fill(r, st)
		drawAligned(c, r, []span{{title, st}}, tc.col.RightAligned())
		m.bounds.Add(r, Element{Kind: ElemColumnHeader, Index: int(tc.col)})
	}

	rows := m.view.Rows()
	scroll := m.view.ScrollOffset()
	now := m.now().Unix()
	for i := 0; i < area.H-1; i++ {
		idx := scroll + i
		if idx >= len(rows) {
			break
		}
		r := Rect{X: area.X, Y: area.Y + 1 + i, W: area.W, H: 1}
		m.bounds.Add(r, Element{Kind: ElemProcessRow, Index: i})
		m.drawRow(c, r, cols, &rows[idx], idx == m.view.SelectedIndex(), now)
	}
}

// rowStyle picks the base style of a row. Selected rows win over search
// matches, which win over tagged rows, which win over new processes. A
// uniform row ignores per-cell colours.
func (m Model) rowStyle(p *model.ProcessRecord, selected bool, now int64) (st Style, uniform bool) {
	t := m.theme
	switch {
	case selected:
		return Style{FG: t.SelectionFG, BG: t.SelectionBG, Bold: true}, true
	case p.MatchesSearch:
		return Style{FG: black, BG: t.SearchMatch}, false
	case m.view.IsTagged(p.PID):
		return Style{FG: t.Tagged, Bold: true}, true
	case m.isNew(p, now):
		return Style{FG: black, BG: t.NewProcess}, true
	default:
		return Style{FG: t.Text}, false
	}
}

// isNew reports whether p started within the highlight window.
func (m Model) isNew(p *model.ProcessRecord, now int64) bool {
	if !m.cfg.HighlightNewProcesses || p.StartTime <= 0 {
		return false
	}
	window := int64(m.cfg.HighlightDurationMs) / 1000
	return now-p.StartTime < window
}

func (m Model) drawRow(c *Canvas, r Rect, cols []tableColumn, p *model.ProcessRecord, selected bool, now int64) {
	base, uniform := m.rowStyle(p, selected, now)
	c.Fill(r, base)
	for _, tc := range cols {
		spans := m.cellSpans(p, tc.col, now)
		for i := range spans {
			if uniform {
				spans[i].st = Style{Bold: spans[i].st.Bold}.over(base)
			} else {
				spans[i].st = spans[i].st.over(base)
			}
		}
		drawAligned(c, Rect{X: r.X + tc.x, Y: r.Y, W: tc.w, H: 1}, spans, tc.col.RightAligned())
	}
}

// drawAligned writes spans inside r, right-aligned when asked.
func drawAligned(c *Canvas, r Rect, spans []span, right bool) {
	if right {
		w := 0
		for _, s := range spans {
			w += runewidth.StringWidth(s.text)
		}
		if pad := r.W - w; pad > 0 {
			r.X += pad
			r.W -= pad
		}
	}
	drawSpans(c, r, spans...)
}

func plain(s string) []span { return []span{{text: s}} }

// cellSpans renders one cell. Styles returned here are overlaid on the row
// style.
func (m Model) cellSpans(p *model.ProcessRecord, col model.Column, now int64) []span {
	t := m.theme
	large := m.cfg.HighlightLargeNumbers

	switch col {
	case model.ColPID:
		return plain(fmt.Sprint(p.PID))
	case model.ColPPID:
		return []span{{fmt.Sprint(p.ParentPID), t.dim()}}
	case model.ColUser:
		st := Style{}
		if p.IsKernel() {
			st.FG = t.LargeNumber
		}
		return []span{{runewidth.Truncate(p.User, col.Width(), ""), st}}
	case model.ColPriority:
		return plain(fmt.Sprint(p.Priority))
	case model.ColNice:
		st := Style{}
		switch {
		case p.Nice < 0:
			st = Style{FG: t.CPUHigh, Bold: true}
		case p.Nice > 0:
			st.FG = t.CPULow
		}
		return []span{{fmt.Sprint(p.Nice), st}}
	case model.ColThreads:
		st := Style{}
		if p.ThreadCount <= 1 {
			st = t.dim()
		}
		return []span{{fmt.Sprint(p.ThreadCount), st}}
	case model.ColVirt:
		return m.bytesSpans(p.VirtualBytes, false)
	case model.ColRes:
		return m.bytesSpans(p.ResidentBytes, p.ResidentBytes >= gib)
	case model.ColShr:
		return m.bytesSpans(p.SharedBytes, false)
	case model.ColStatus:
		st := Style{FG: t.statusColor(byte(p.Status))}
		switch p.Status {
		case model.StatusRunning, model.StatusDiskWait, model.StatusZombie:
			st.Bold = true
		}
		return []span{{string(rune(p.Status)), st}}
	case model.ColCPU:
		return m.percentSpans(p.CPUPercent, large)
	case model.ColMem:
		return m.percentSpans(p.MemPercent, large)
	case model.ColTime:
		return m.timeSpans(p.CPUTime(), large)
	case model.ColStart:
		return plain(FormatStart(p.StartTime, now))
	case model.ColCommand:
		return m.commandSpans(p)
	case model.ColElevated:
		if p.IsElevated {
			return []span{{"yes", Style{FG: t.LargeNumber}}}
		}
		return []span{{"no", t.dim()}}
	case model.ColArch:
		return []span{{p.Arch.String(), Style{FG: t.Basename}}}
	case model.ColEfficiency:
		if p.EfficiencyMode {
			return []span{{"eco", Style{FG: t.CPULow}}}
		}
		return nil
	}
	return nil
}

func (m Model) percentSpans(v float64, large bool) []span {
	st := Style{}
	if large && v >= 99.9 {
		st = Style{FG: m.theme.LargeNumber, Bold: true}
	}
	return []span{{fmt.Sprintf("%5.1f", v), st}}
}

// bytesSpans colours memory sizes by magnitude.
func (m Model) bytesSpans(b uint64, bold bool) []span {
	t := m.theme
	st := Style{Bold: bold}
	if m.cfg.HighlightLargeNumbers {
		switch {
		case b >= tib:
			st.FG = t.CPUHigh
		case b >= gib:
			st.FG = t.CPULow
		case b >= mib:
			st.FG = t.Basename
		}
	}
	return []span{{FormatBytes(b), st}}
}

// timeSpans colours TIME+ by magnitude: hours, days and years.
func (m Model) timeSpans(d time.Duration, large bool) []span {
	t := m.theme
	text := FormatTime(d)
	if d < 10*time.Millisecond {
		return []span{{text, t.dim()}}
	}
	st := Style{}
	if large {
		switch {
		case d >= 365*24*time.Hour:
			st.FG = t.CPUHigh
		case d >= 24*time.Hour:
			st.FG = t.CPULow
		case d >= time.Hour:
			st.FG = t.Basename
		}
	}
	return []span{{text, st}}
}

// systemPrefixes are dimmed in program paths, longest first.
var systemPrefixes = []string{
	`c:\windows\system32\`,
	`c:\windows\syswow64\`,
	`c:\windows\`,
	`c:\program files (x86)\`,
	`c:\program files\`,
	`c:\programdata\`,
}

func systemPrefixLen(path string) int {
	for _, p := range systemPrefixes {
		if len(path) >= len(p) && strings.EqualFold(path[:len(p)], p) {
			return len(p)
		}
	}
	return 0
}

// commandSpans composes the Command cell: elevation shield, arch tag, tree
// prefix, dimmed directory and bold basename.
func (m Model) commandSpans(p *model.ProcessRecord) []span {
	t := m.theme
	var out []span

	if p.IsElevated {
		out = append(out, span{"🛡 ", Style{FG: t.LargeNumber}})
	}
	if p.Arch != model.ArchNative {
		out = append(out, span{"[" + p.Arch.String() + "] ", Style{FG: t.Basename}})
	}
	if m.view.TreeView() {
		prefix := p.TreePrefix
		if p.HasChildren {
			if p.IsCollapsed {
				prefix += "+"
			} else {
				prefix += "-"
			}
		}
		if prefix != "" {
			out = append(out, span{prefix, t.dim()})
		}
	}

	name := p.Name
	if name == "" {
		name = p.Command
	}
	if m.view.ShowProgramPath && p.ExePath != "" {
		path := p.ExePath
		dir, base := "", path
		if i := strings.LastIndexAny(path, `\/`); i >= 0 {
			dir, base = path[:i+1], path[i+1:]
		}
		if n := systemPrefixLen(dir); n > 0 {
			out = append(out, span{dir[:n], t.dim()})
			dir = dir[n:]
		}
		if dir != "" {
			out = append(out, span{dir, Style{}})
		}
		name = base
	}

	bst := Style{}
	if m.cfg.HighlightBasename {
		bst = Style{FG: t.Basename, Bold: true}
	}
	switch {
	case p.ExeDeleted:
		bst = Style{FG: t.CPUHigh, Bold: true}
	case p.ExeUpdated:
		bst = Style{FG: t.CPUMid, Bold: true}
	}
	out = append(out, span{name, bst})

	switch {
	case p.ExeDeleted:
		out = append(out, span{" (deleted)", Style{FG: t.CPUHigh}})
	case p.ExeUpdated:
		out = append(out, span{" (updated)", Style{FG: t.CPUMid}})
	}
	return out
}
