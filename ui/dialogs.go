package ui

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/faratech/htop-win/action"
	"github.com/faratech/htop-win/config"
	"github.com/faratech/htop-win/model"
)

// dialog is a boxed list drawn over the table. cursor is -1 for dialogs
// that only scroll.
type dialog struct {
	title  string
	lines  [][]span
	cursor int
	hint   string
}

// columnEntry is one row of the column configuration dialog.
type columnEntry struct {
	col model.Column
	on  bool
}

type setupItem int

const (
	setupRefresh setupItem = iota
	setupCPUMeter
	setupMemMeter
	setupKernel
	setupUser
	setupPath
	setupHighlightNew
	setupLargeNumbers
	setupBasename
	setupTree
	setupConfirmKill
	setupColorScheme
	setupColumns

	setupCount
)

func (s setupItem) label() string {
	switch s {
	case setupRefresh:
		return "Refresh rate"
	case setupCPUMeter:
		return "CPU meter"
	case setupMemMeter:
		return "Memory meter"
	case setupKernel:
		return "Show system processes"
	case setupUser:
		return "Show user processes"
	case setupPath:
		return "Show program path"
	case setupHighlightNew:
		return "Highlight new processes"
	case setupLargeNumbers:
		return "Highlight large numbers"
	case setupBasename:
		return "Highlight program name"
	case setupTree:
		return "Tree view by default"
	case setupConfirmKill:
		return "Confirm before kill"
	case setupColorScheme:
		return "Color scheme"
	case setupColumns:
		return "Columns"
	}
	return ""
}

func onOff(v bool) string {
	if v {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) setupValue(s setupItem) string {
	c := m.cfg
	switch s {
	case setupRefresh:
		return fmt.Sprintf("%d ms", c.RefreshRateMs)
	case setupCPUMeter:
		return string(c.CPUMeterMode)
	case setupMemMeter:
		return string(c.MemoryMeterMode)
	case setupKernel:
		return onOff(c.ShowKernelThreads)
	case setupUser:
		return onOff(c.ShowUserThreads)
	case setupPath:
		return onOff(c.ShowProgramPath)
	case setupHighlightNew:
		return onOff(c.HighlightNewProcesses)
	case setupLargeNumbers:
		return onOff(c.HighlightLargeNumbers)
	case setupBasename:
		return onOff(c.HighlightBasename)
	case setupTree:
		return onOff(c.TreeViewDefault)
	case setupConfirmKill:
		return onOff(c.ConfirmKill)
	case setupColorScheme:
		return c.ColorScheme + " ..."
	case setupColumns:
		return fmt.Sprintf("%d visible ...", len(m.columns))
	}
	return ""
}

// dialogFor builds the dialog of the current mode.
func (m Model) dialogFor() (dialog, bool) {
	switch m.mode {
	case helpMode:
		return m.helpDialog(), true
	case sortSelectMode:
		return m.sortDialog(), true
	case killMode:
		return m.killDialog(), true
	case signalSelectMode:
		return m.signalDialog(), true
	case priorityMode:
		return m.priorityDialog(), true
	case setupMode:
		return m.setupDialog(), true
	case processInfoMode:
		return m.infoDialog(), true
	case userSelectMode:
		return m.userDialog(), true
	case environmentMode:
		return m.environmentDialog(), true
	case colorSchemeMode:
		return m.colorSchemeDialog(), true
	case commandWrapMode:
		return m.commandDialog(), true
	case columnConfigMode:
		return m.columnDialog(), true
	case affinityMode:
		return m.affinityDialog(), true
	}
	return dialog{}, false
}

// dialogLen is the number of lines of the current dialog.
func (m Model) dialogLen() int {
	d, _ := m.dialogFor()
	return len(d.lines)
}

func (m Model) helpDialog() dialog {
	t := m.theme
	keySt := Style{FG: t.Label, Bold: true}
	lines := [][]span{
		{{"htop-win ", t.label()}, {"interactive process viewer", t.text()}},
		nil,
	}
	for i, group := range m.keys.helpGroups() {
		if i > 0 {
			lines = append(lines, nil)
		}
		for _, b := range group {
			h := b.Help()
			lines = append(lines, []span{{runewidth.FillRight(h.Key, 10), keySt}, {h.Desc, t.text()}})
		}
	}
	lines = append(lines, nil, []span{{"Digits", keySt}, {"    jump to PID", t.text()}})

	status := []span{{"Status: ", t.label()}}
	for _, s := range []struct {
		code byte
		desc string
	}{{'R', "running"}, {'S', "sleeping"}, {'D', "disk wait"}, {'Z', "zombie"}, {'T', "stopped"}, {'I', "idle"}} {
		status = append(status,
			span{string(s.code), Style{FG: t.statusColor(s.code), Bold: true}},
			span{" " + s.desc + "  ", t.text()})
	}
	lines = append(lines, nil, status)
	return dialog{title: "Help", lines: lines, cursor: -1, hint: "Esc close  ↑↓ scroll"}
}

func (m Model) sortDialog() dialog {
	var lines [][]span
	for _, col := range model.AllColumns() {
		mark := "  "
		if col == m.view.Sorter.Column {
			mark = "* "
		}
		lines = append(lines, plain(mark+col.Name()))
	}
	return dialog{title: "Sort by", lines: lines, cursor: m.cursor, hint: "Enter select  Esc cancel"}
}

// processName resolves pid against the dialog target and the current rows.
func (m Model) processName(pid uint32) string {
	if pid == m.target.PID && m.target.Name != "" {
		return m.target.Name
	}
	for _, p := range m.view.Rows() {
		if p.PID == pid {
			return p.Name
		}
	}
	return "?"
}

func (m Model) targetLines() [][]span {
	lines := make([][]span, 0, len(m.killPIDs))
	for _, pid := range m.killPIDs {
		lines = append(lines, []span{
			{fmt.Sprintf("%7d  ", pid), m.theme.dim()},
			{m.processName(pid), m.theme.text()},
		})
	}
	return lines
}

func (m Model) killDialog() dialog {
	t := m.theme
	lines := [][]span{
		{{fmt.Sprintf("Terminate %d process(es)?", len(m.killPIDs)), t.label()}},
		nil,
	}
	lines = append(lines, m.targetLines()...)
	return dialog{
		title:  "Kill",
		lines:  lines,
		cursor: -1,
		hint:   "Enter/y/Space SIGTERM  9 SIGKILL  s signals  Esc cancel",
	}
}

func (m Model) signalDialog() dialog {
	var lines [][]span
	for _, s := range action.Signals {
		lines = append(lines, []span{
			{fmt.Sprintf("%2d ", s.Number), m.theme.label()},
			{runewidth.FillRight(s.Name, 8) + " " + s.Description, Style{}},
		})
	}
	return dialog{
		title:  fmt.Sprintf("Send signal to %d process(es)", len(m.killPIDs)),
		lines:  lines,
		cursor: m.cursor,
		hint:   "Enter send  Esc back",
	}
}

func (m Model) priorityDialog() dialog {
	current := model.PriorityClassFromBase(m.target.BasePriority)
	var lines [][]span
	for _, c := range model.PriorityClasses {
		mark := "  "
		if c == current {
			mark = "* "
		}
		lines = append(lines, plain(mark+c.String()))
	}
	return dialog{
		title:  fmt.Sprintf("Priority: %s (%d)", m.target.Name, m.target.PID),
		lines:  lines,
		cursor: m.cursor,
		hint:   "Enter set  Esc cancel",
	}
}

func (m Model) setupDialog() dialog {
	t := m.theme
	lines := make([][]span, 0, setupCount)
	for s := setupItem(0); s < setupCount; s++ {
		lines = append(lines, []span{
			{runewidth.FillRight(s.label(), 26), t.text()},
			{m.setupValue(s), Style{FG: t.Label}},
		})
	}
	hint := "Enter/Space change  Esc close"
	if m.cfgPath != "" {
		hint += " and save"
	}
	return dialog{title: "Setup", lines: lines, cursor: m.cursor, hint: hint}
}

func (m Model) infoDialog() dialog {
	t := m.theme
	p := &m.target
	row := func(label, value string) []span {
		return []span{{runewidth.FillRight(label, 16), t.label()}, {value, t.text()}}
	}
	lines := [][]span{
		row("PID", fmt.Sprint(p.PID)),
		row("Parent PID", fmt.Sprint(p.ParentPID)),
		row("Name", p.Name),
		row("Command", p.Command),
		row("Path", p.ExePath),
		row("User", p.User),
		row("Status", string(rune(p.Status))),
		row("Priority class", model.PriorityClassFromBase(p.BasePriority).String()),
		row("Base priority", fmt.Sprint(p.BasePriority)),
		row("Threads", fmt.Sprint(p.ThreadCount)),
		row("Handles", fmt.Sprint(p.HandleCount)),
		row("CPU%", fmt.Sprintf("%.1f", p.CPUPercent)),
		row("MEM%", fmt.Sprintf("%.1f", p.MemPercent)),
		row("CPU time", strings.TrimSpace(FormatTime(p.CPUTime()))),
		row("Started", FormatStart(p.StartTime, m.now().Unix())+" ago"),
		row("Virtual", FormatBytes(p.VirtualBytes)),
		row("Resident", FormatBytes(p.ResidentBytes)),
		row("Shared", FormatBytes(p.SharedBytes)),
		row("Elevated", onOff(p.IsElevated)),
		row("Architecture", p.Arch.String()),
		row("Efficiency", onOff(p.EfficiencyMode)),
		nil,
	}

	if err := m.info.detailsErr; err != nil {
		lines = append(lines, []span{{"Details unavailable: " + err.Error(), Style{FG: t.CPUHigh}}})
	} else {
		d := m.info.details
		lines = append(lines,
			row("Peak resident", FormatBytes(d.PeakWorkingSet)),
			row("Private", FormatBytes(d.PrivateUsage)),
			row("Page faults", fmt.Sprint(d.PageFaults)),
			row("Affinity", fmt.Sprintf("%#x of %#x", d.AffinityMask, d.SystemMask)),
			row("Read ops", fmt.Sprint(d.IOReadOps)),
			row("Write ops", fmt.Sprint(d.IOWriteOps)),
		)
	}
	if err := m.info.ioErr; err != nil {
		lines = append(lines, []span{{"I/O unavailable: " + err.Error(), Style{FG: t.CPUHigh}}})
	} else {
		lines = append(lines,
			row("I/O read", FormatBytes(m.info.read)),
			row("I/O write", FormatBytes(m.info.write)),
		)
	}
	return dialog{title: "Process " + fmt.Sprint(p.PID), lines: lines, cursor: -1, hint: "Esc close"}
}

// userChoices is the list offered by the user dialog.
func (m Model) userChoices() []string {
	return append([]string{"All users"}, m.view.Users()...)
}

func (m Model) userDialog() dialog {
	var lines [][]span
	current := m.view.UserFilter()
	for i, u := range m.userChoices() {
		mark := "  "
		if (i == 0 && current == "") || (i > 0 && strings.EqualFold(u, current)) {
			mark = "* "
		}
		lines = append(lines, plain(mark+u))
	}
	return dialog{title: "Show processes of", lines: lines, cursor: m.cursor, hint: "Enter select  Esc cancel"}
}

// environmentLines lists the target's environment. Only our own process
// can be read without another process's memory.
func (m Model) environmentLines() [][]span {
	if m.target.PID != uint32(os.Getpid()) {
		return [][]span{
			{{"The environment of another process is not available.", m.theme.dim()}},
		}
	}
	env := os.Environ()
	slices.Sort(env)
	lines := make([][]span, 0, len(env))
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		lines = append(lines, []span{{k, m.theme.label()}, {"=" + v, m.theme.text()}})
	}
	return lines
}

func (m Model) environmentDialog() dialog {
	return dialog{
		title:  fmt.Sprintf("Environment: %s (%d)", m.target.Name, m.target.PID),
		lines:  m.environmentLines(),
		cursor: -1,
		hint:   "Esc close  ↑↓ scroll",
	}
}

func (m Model) colorSchemeDialog() dialog {
	var lines [][]span
	for _, name := range config.ColorSchemes {
		mark := "  "
		if name == m.cfg.ColorScheme {
			mark = "* "
		}
		th := ThemeByName(name)
		lines = append(lines, []span{
			{mark + runewidth.FillRight(name, 18), Style{}},
			{"███", Style{FG: th.CPULow}},
			{"███", Style{FG: th.CPUMid}},
			{"███", Style{FG: th.CPUHigh}},
			{" ███", Style{FG: th.Basename}},
		})
	}
	return dialog{title: "Color scheme", lines: lines, cursor: m.cursor, hint: "Enter apply  Esc cancel"}
}

// wrapText breaks s into lines of at most width cells.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			out = append(out, b.String())
			b.Reset()
			w = 0
		}
		b.WriteRune(r)
		w += rw
	}
	if b.Len() > 0 || len(out) == 0 {
		out = append(out, b.String())
	}
	return out
}

func (m Model) commandDialog() dialog {
	cmd := m.target.Command
	if cmd == "" {
		cmd = m.target.Name
	}
	var lines [][]span
	for _, l := range wrapText(cmd, max(10, m.width-8)) {
		lines = append(lines, plain(l))
	}
	return dialog{
		title:  fmt.Sprintf("Command line: %d", m.target.PID),
		lines:  lines,
		cursor: -1,
		hint:   "Esc close  ↑↓ scroll",
	}
}

// newColumnEdit lists the visible columns in display order followed by the
// hidden ones.
func newColumnEdit(visible []model.Column) []columnEntry {
	out := make([]columnEntry, 0, len(model.AllColumns()))
	for _, c := range visible {
		out = append(out, columnEntry{col: c, on: true})
	}
	for _, c := range model.AllColumns() {
		if !slices.Contains(visible, c) {
			out = append(out, columnEntry{col: c})
		}
	}
	return out
}

func (m Model) columnDialog() dialog {
	var lines [][]span
	for _, e := range m.colEdit {
		lines = append(lines, plain(onOff(e.on)+" "+e.col.Name()))
	}
	return dialog{
		title:  "Columns",
		lines:  lines,
		cursor: m.cursor,
		hint:   "Space toggle  [ ] move  Esc save",
	}
}

func (m Model) affinityDialog() dialog {
	var lines [][]span
	for i := 0; i < m.affinityCPUs; i++ {
		lines = append(lines, plain(fmt.Sprintf("%s CPU %d", onOff(m.affinity&(1<<i) != 0), i)))
	}
	return dialog{
		title:  fmt.Sprintf("Affinity: %s (%d)", m.target.Name, m.target.PID),
		lines:  lines,
		cursor: m.cursor,
		hint:   "Space toggle  a all  n none  Enter apply",
	}
}

// Geometry

func spansWidth(spans []span) int {
	w := 0
	for _, s := range spans {
		w += runewidth.StringWidth(s.text)
	}
	return w
}

// dialogBox centers d on the screen and returns the box with the number of
// list lines it can show.
func (m Model) dialogBox(d dialog) (Rect, int) {
	w := runewidth.StringWidth(d.title) + 6
	for _, l := range d.lines {
		w = max(w, spansWidth(l)+4)
	}
	w = max(w, runewidth.StringWidth(d.hint)+4)
	w = min(w, m.width-2)

	chrome := 2
	if d.hint != "" {
		chrome++
	}
	h := min(len(d.lines)+chrome, m.height-2)
	if w < 6 || h <= chrome {
		return Rect{}, 0
	}
	return Rect{X: (m.width - w) / 2, Y: (m.height - h) / 2, W: w, H: h}, h - chrome
}

// dialogPage is the scroll step of the open dialog.
func (m Model) dialogPage() int {
	d, _ := m.dialogFor()
	_, visible := m.dialogBox(d)
	return max(1, visible)
}

// dialogTop is the first visible line. Cursor dialogs keep the cursor in
// view; the others use the scroll offset.
func dialogTop(d dialog, scroll, visible int) int {
	if d.cursor >= 0 {
		return max(0, d.cursor-visible+1)
	}
	return max(0, min(scroll, len(d.lines)-visible))
}

func (m Model) drawDialog(c *Canvas) {
	d, ok := m.dialogFor()
	if !ok {
		return
	}
	box, visible := m.dialogBox(d)
	if box.Empty() {
		return
	}
	t := m.theme
	border := Style{FG: t.Border}

	c.Fill(box, t.text())
	m.drawFrame(c, box, border)
	title := " " + d.title + " "
	if tw := runewidth.StringWidth(title); tw < box.W-2 {
		c.Text(box.X+(box.W-tw)/2, box.Y, title, t.label(), tw)
	}
	m.bounds.Add(box, Element{Kind: ElemDialog, Index: -1})

	top := dialogTop(d, m.dialogScroll, visible)
	inner := box.W - 4
	for i := 0; i < visible && top+i < len(d.lines); i++ {
		r := Rect{X: box.X + 2, Y: box.Y + 1 + i, W: inner, H: 1}
		drawSpans(c, r, d.lines[top+i]...)
		if top+i == d.cursor {
			c.Restyle(Rect{X: box.X + 1, Y: r.Y, W: box.W - 2, H: 1},
				Style{FG: t.SelectionFG, BG: t.SelectionBG, Bold: true})
		}
		m.bounds.Add(r, Element{Kind: ElemDialog, Index: top + i})
	}
	if top > 0 {
		c.Put(box.X+box.W-1, box.Y+1, "↑", border)
	}
	if top+visible < len(d.lines) {
		c.Put(box.X+box.W-1, box.Y+visible, "↓", border)
	}
	if d.hint != "" {
		c.Text(box.X+2, box.Y+box.H-2, d.hint, t.dim(), inner)
	}
}

func (m Model) drawFrame(c *Canvas, r Rect, st Style) {
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		c.Put(x, r.Y, "─", st)
		c.Put(x, bottom, "─", st)
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.Put(r.X, y, "│", st)
		c.Put(right, y, "│", st)
	}
	c.Put(r.X, r.Y, "┌", st)
	c.Put(right, r.Y, "┐", st)
	c.Put(r.X, bottom, "└", st)
	c.Put(right, bottom, "┘", st)
}

// drawError overlays the pending error. Any key dismisses it.
func (m Model) drawError(c *Canvas) {
	if m.lastError == "" {
		return
	}
	msg := fmt.Sprintf(errorFmt, m.lastError) + " (press any key)"
	w := min(runewidth.StringWidth(msg)+4, m.width)
	if w <= 0 || m.height < 3 {
		return
	}
	box := Rect{X: (m.width - w) / 2, Y: (m.height - 3) / 2, W: w, H: 3}
	st := m.theme.errorText()
	c.Fill(box, st)
	c.Text(box.X+2, box.Y+1, msg, st, box.W-4)
	m.bounds.Add(box, Element{Kind: ElemDialog, Index: -1})
}
