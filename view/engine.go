// Package view turns a process snapshot into the rows the table displays
// and owns the selection, scroll, tag and collapse state around them.
package view

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/faratech/htop-win/model"
)

const (
	enrichMargin = 10
	pidSearchTTL = time.Second
)

// Enricher fills lazily resolved fields for a window of rows in place.
type Enricher interface {
	EnrichWindow(rows []model.ProcessRecord, withPath bool)
}

// Engine is the view state. It is not safe for concurrent use; the UI
// touches it only from its update loop.
type Engine struct {
	Sorter *model.Sorter

	ShowKernel      bool
	ShowUser        bool
	ShowProgramPath bool

	Paused        bool
	Iterations    int
	MaxIterations int // 0 means unlimited

	enricher Enricher

	input []model.ProcessRecord
	rows  []model.ProcessRecord

	selected int
	scroll   int
	height   int

	tree      bool
	tagged    map[uint32]struct{}
	collapsed map[uint32]struct{}

	following bool
	followPID uint32

	filter      string
	filterLower string
	search      string
	searchLower string
	userFilter  string
	whitelist   map[uint32]struct{}

	pidBuf string
	pidAt  time.Time
}

func NewEngine(e Enricher) *Engine {
	return &Engine{
		Sorter:     model.NewSorter(),
		ShowKernel: true,
		ShowUser:   true,
		enricher:   e,
		height:     1,
		tagged:     make(map[uint32]struct{}),
		collapsed:  make(map[uint32]struct{}),
	}
}

// Rows returns the displayed rows. The slice is owned by the engine.
func (e *Engine) Rows() []model.ProcessRecord { return e.rows }

func (e *Engine) Len() int { return len(e.rows) }

func (e *Engine) SelectedIndex() int { return e.selected }

func (e *Engine) ScrollOffset() int { return e.scroll }

func (e *Engine) VisibleHeight() int { return e.height }

func (e *Engine) TreeView() bool { return e.tree }

func (e *Engine) Filter() string { return e.filter }

func (e *Engine) Search() string { return e.search }

func (e *Engine) UserFilter() string { return e.userFilter }

// Following reports the followed PID, if any.
func (e *Engine) Following() (uint32, bool) { return e.followPID, e.following }

// Selected returns the selected row.
func (e *Engine) Selected() (model.ProcessRecord, bool) {
	if e.selected < 0 || e.selected >= len(e.rows) {
		return model.ProcessRecord{}, false
	}
	return e.rows[e.selected], true
}

// Rebuild runs the pipeline on a fresh process table.
func (e *Engine) Rebuild(procs []model.ProcessRecord) {
	e.input = procs
	e.Refresh()
}

// Refresh re-runs the pipeline on the last input.
func (e *Engine) Refresh() {
	rows := make([]model.ProcessRecord, 0, len(e.input))
	for i := range e.input {
		if e.keep(&e.input[i]) {
			rows = append(rows, e.input[i])
		}
	}
	for i := range rows {
		rows[i].MatchesSearch = e.matchesSearch(&rows[i])
	}

	e.Sorter.Sort(rows)
	if e.tree {
		rows = buildTree(rows, e.collapsed)
	}
	e.rows = rows

	if e.enricher != nil {
		lo, hi := e.enrichmentWindow()
		if lo < hi {
			e.enricher.EnrichWindow(e.rows[lo:hi], e.ShowProgramPath)
		}
	}

	if e.following {
		if idx := e.indexOf(e.followPID); idx >= 0 {
			e.selected = idx
		}
	}
	e.clamp()
	e.EnsureVisible()
}

// enrichmentWindow returns the visible row range widened by the margin.
func (e *Engine) enrichmentWindow() (lo, hi int) {
	lo = max(0, e.scroll-enrichMargin)
	hi = min(len(e.rows), e.scroll+e.height+enrichMargin)
	return lo, hi
}

func (e *Engine) keep(p *model.ProcessRecord) bool {
	kernel := p.IsKernel()
	if kernel && !e.ShowKernel || !kernel && !e.ShowUser {
		return false
	}
	if e.whitelist != nil {
		if _, ok := e.whitelist[p.PID]; !ok {
			return false
		}
	}
	if e.userFilter != "" && p.User != e.userFilter {
		return false
	}
	if e.filterLower == "" {
		return true
	}
	return strings.Contains(p.NameLower, e.filterLower) ||
		strings.Contains(p.CommandLower, e.filterLower) ||
		strings.Contains(p.UserLower, e.filterLower) ||
		strings.Contains(strconv.FormatUint(uint64(p.PID), 10), e.filterLower)
}

func (e *Engine) matchesSearch(p *model.ProcessRecord) bool {
	if e.searchLower == "" {
		return false
	}
	return strings.Contains(p.NameLower, e.searchLower) ||
		strings.Contains(p.CommandLower, e.searchLower)
}

func (e *Engine) indexOf(pid uint32) int {
	for i := range e.rows {
		if e.rows[i].PID == pid {
			return i
		}
	}
	return -1
}

func (e *Engine) clamp() {
	switch {
	case len(e.rows) == 0:
		e.selected = 0
	case e.selected >= len(e.rows):
		e.selected = len(e.rows) - 1
	case e.selected < 0:
		e.selected = 0
	}
}

// EnsureVisible scrolls so the selected row lies inside the viewport.
func (e *Engine) EnsureVisible() {
	if e.selected < e.scroll {
		e.scroll = e.selected
	} else if e.selected >= e.scroll+e.height {
		e.scroll = e.selected - e.height + 1
	}
	if limit := max(0, len(e.rows)-e.height); e.scroll > limit {
		e.scroll = limit
	}
	if e.scroll < 0 {
		e.scroll = 0
	}
}

// SetVisibleHeight sets the number of table rows on screen.
func (e *Engine) SetVisibleHeight(h int) {
	e.height = max(1, h)
	e.EnsureVisible()
}

// Filtering and searching

func (e *Engine) SetFilter(s string) {
	e.filter = s
	e.filterLower = strings.ToLower(s)
	e.Refresh()
}

// SetSearch highlights rows whose name or command contain s. The first
// keystroke of a search selects the first match; later keystrokes keep
// the selection while it still matches.
func (e *Engine) SetSearch(s string) {
	first := e.searchLower == ""
	e.search = s
	e.searchLower = strings.ToLower(s)
	for i := range e.rows {
		e.rows[i].MatchesSearch = e.matchesSearch(&e.rows[i])
	}
	if e.searchLower == "" {
		return
	}
	if !first && e.selected < len(e.rows) && e.rows[e.selected].MatchesSearch {
		return
	}
	for i := range e.rows {
		if e.rows[i].MatchesSearch {
			e.selectIndex(i)
			return
		}
	}
}

// FindNext moves to the next match after the selection, wrapping around.
func (e *Engine) FindNext() bool {
	n := len(e.rows)
	if e.searchLower == "" || n == 0 {
		return false
	}
	for i := 1; i <= n; i++ {
		idx := (e.selected + i) % n
		if e.matchesSearch(&e.rows[idx]) {
			e.selectIndex(idx)
			return true
		}
	}
	return false
}

func (e *Engine) SetUserFilter(user string) {
	e.userFilter = user
	e.Refresh()
}

// SetPIDWhitelist restricts the view to pids; nil or empty clears it.
func (e *Engine) SetPIDWhitelist(pids []uint32) {
	if len(pids) == 0 {
		e.whitelist = nil
	} else {
		e.whitelist = make(map[uint32]struct{}, len(pids))
		for _, p := range pids {
			e.whitelist[p] = struct{}{}
		}
	}
	e.Refresh()
}

// Users lists the distinct owners of the last input, sorted.
func (e *Engine) Users() []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range e.input {
		u := e.input[i].User
		if u == "" {
			continue
		}
		if _, ok := seen[u]; !ok {
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	slices.Sort(out)
	return out
}

// Sorting and tree

func (e *Engine) SetSortColumn(col model.Column) {
	e.Sorter.Toggle(col)
	e.Refresh()
}

func (e *Engine) InvertSort() {
	e.Sorter.Invert()
	e.Refresh()
}

func (e *Engine) SetTreeView(on bool) {
	e.tree = on
	e.Refresh()
}

func (e *Engine) ToggleTree() {
	e.SetTreeView(!e.tree)
}

// Navigation. Moving the selection by hand stops following.

func (e *Engine) selectIndex(i int) {
	e.selected = i
	e.clamp()
	e.EnsureVisible()
}

func (e *Engine) SelectIndex(i int) {
	e.following = false
	e.selectIndex(i)
}

func (e *Engine) Move(delta int) {
	e.SelectIndex(e.selected + delta)
}

func (e *Engine) MoveUp()   { e.Move(-1) }
func (e *Engine) MoveDown() { e.Move(1) }

func (e *Engine) PageUp() {
	e.Move(-max(1, e.height-1))
}

func (e *Engine) PageDown() {
	e.Move(max(1, e.height-1))
}

func (e *Engine) Home() { e.SelectIndex(0) }

func (e *Engine) End() { e.SelectIndex(len(e.rows) - 1) }

// PIDSearch appends digit to the incremental PID buffer, which expires
// after a second of inactivity, and selects the first row whose pid is at
// least the buffered number.
func (e *Engine) PIDSearch(digit rune, now time.Time) {
	if digit < '0' || digit > '9' {
		return
	}
	if !e.pidAt.IsZero() && now.Sub(e.pidAt) > pidSearchTTL {
		e.pidBuf = ""
	}
	e.pidBuf += string(digit)
	e.pidAt = now

	target, err := strconv.ParseUint(e.pidBuf, 10, 32)
	if err != nil {
		// Overflow; start over from this digit.
		e.pidBuf = string(digit)
		target = uint64(digit - '0')
	}
	for i := range e.rows {
		if uint64(e.rows[i].PID) >= target {
			e.SelectIndex(i)
			return
		}
	}
}

// PIDSearchBuffer returns the pending PID digits.
func (e *Engine) PIDSearchBuffer() string { return e.pidBuf }

// PIDSearchActive reports whether the PID buffer is still accepting digits.
func (e *Engine) PIDSearchActive(now time.Time) bool {
	return e.pidBuf != "" && now.Sub(e.pidAt) <= pidSearchTTL
}

// Tags

func (e *Engine) IsTagged(pid uint32) bool {
	_, ok := e.tagged[pid]
	return ok
}

func (e *Engine) ToggleTag() {
	sel, ok := e.Selected()
	if !ok {
		return
	}
	if e.IsTagged(sel.PID) {
		delete(e.tagged, sel.PID)
	} else {
		e.tagged[sel.PID] = struct{}{}
	}
}

// TagWithChildren tags the selection and every descendant in the last
// input.
func (e *Engine) TagWithChildren() {
	sel, ok := e.Selected()
	if !ok {
		return
	}
	kids := make(map[uint32][]uint32)
	for i := range e.input {
		p := &e.input[i]
		if p.ParentPID != p.PID {
			kids[p.ParentPID] = append(kids[p.ParentPID], p.PID)
		}
	}
	seen := make(map[uint32]bool)
	stack := []uint32{sel.PID}
	for len(stack) > 0 {
		pid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[pid] {
			continue
		}
		seen[pid] = true
		e.tagged[pid] = struct{}{}
		stack = append(stack, kids[pid]...)
	}
}

func (e *Engine) UntagAll() {
	clear(e.tagged)
}

// TaggedPIDs returns the tag set in ascending order.
func (e *Engine) TaggedPIDs() []uint32 {
	out := make([]uint32, 0, len(e.tagged))
	for pid := range e.tagged {
		out = append(out, pid)
	}
	slices.Sort(out)
	return out
}

// ToggleFollow starts following the selected pid, or stops following.
func (e *Engine) ToggleFollow() {
	if e.following {
		e.following = false
		return
	}
	if sel, ok := e.Selected(); ok {
		e.following = true
		e.followPID = sel.PID
	}
}

// Collapse

func (e *Engine) Collapse() {
	if sel, ok := e.Selected(); ok {
		e.collapsed[sel.PID] = struct{}{}
		e.Refresh()
	}
}

func (e *Engine) Expand() {
	if sel, ok := e.Selected(); ok {
		delete(e.collapsed, sel.PID)
		e.Refresh()
	}
}

// ToggleCollapseAll expands everything when anything is collapsed and
// collapses every node otherwise.
func (e *Engine) ToggleCollapseAll() {
	if len(e.collapsed) > 0 {
		clear(e.collapsed)
	} else {
		for i := range e.input {
			e.collapsed[e.input[i].PID] = struct{}{}
		}
	}
	e.Refresh()
}

// CollapseToParent selects the parent of the selection and collapses it.
func (e *Engine) CollapseToParent() {
	sel, ok := e.Selected()
	if !ok {
		return
	}
	idx := e.indexOf(sel.ParentPID)
	if idx < 0 || sel.ParentPID == sel.PID {
		return
	}
	e.SelectIndex(idx)
	e.collapsed[sel.ParentPID] = struct{}{}
	e.Refresh()
}

// CountIteration records one completed refresh and reports whether the
// iteration limit has been reached.
func (e *Engine) CountIteration() bool {
	e.Iterations++
	return e.MaxIterations > 0 && e.Iterations >= e.MaxIterations
}
