package ui

import (
	"fmt"
	"math/bits"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faratech/htop-win/action"
	"github.com/faratech/htop-win/config"
	"github.com/faratech/htop-win/model"
)

const (
	errorFmt    = "Error: %v"
	doubleClick = 500 * time.Millisecond
	wheelStep   = 3
)

type keyHandler func(Model, tea.KeyMsg) (tea.Model, tea.Cmd)

// modeHandlers dispatches key presses by mode. Handlers must not call
// handleKey.
var modeHandlers = [modeCount]keyHandler{
	normalMode:       Model.handleNormalMode,
	helpMode:         Model.handleScrollMode,
	searchMode:       Model.handleSearchMode,
	filterMode:       Model.handleFilterMode,
	sortSelectMode:   Model.handleSortSelectMode,
	killMode:         Model.handleKillMode,
	signalSelectMode: Model.handleSignalSelectMode,
	priorityMode:     Model.handlePriorityMode,
	setupMode:        Model.handleSetupMode,
	processInfoMode:  Model.handleScrollMode,
	userSelectMode:   Model.handleUserSelectMode,
	environmentMode:  Model.handleScrollMode,
	colorSchemeMode:  Model.handleColorSchemeMode,
	commandWrapMode:  Model.handleScrollMode,
	columnConfigMode: Model.handleColumnConfigMode,
	affinityMode:     Model.handleAffinityMode,
}

// fkeyTypes maps a function key number to its key type.
var fkeyTypes = []tea.KeyType{
	tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5,
	tea.KeyF6, tea.KeyF7, tea.KeyF8, tea.KeyF9, tea.KeyF10,
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.SetVisibleHeight(m.tableHeight())
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.interval())}
		if !m.view.Paused && !m.refreshing && m.src != nil {
			m.refreshing = true
			cmds = append(cmds, m.refreshCmd())
		}
		if m.mode == processInfoMode {
			cmds = append(cmds, m.ioCmd(m.target.PID))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		return m.applySnapshot(msg.snap)

	case ioMsg:
		if m.mode == processInfoMode && msg.pid == m.target.PID {
			m.info.read, m.info.write, m.info.ioErr = msg.read, msg.write, msg.err
		}
		return m, nil

	case configMsg:
		if m.overrides != nil {
			m.overrides(msg.cfg)
		}
		m.applyConfig(msg.cfg)
		m.view.SetVisibleHeight(m.tableHeight())
		return m, nil

	case statusMsg:
		if msg.isError {
			m.lastError = msg.text
		} else {
			m.statusText = msg.text
		}
		return m, nil
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	switch m.mode {
	case searchMode:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case filterMode:
		m.filterInput, cmd = m.filterInput.Update(msg)
	}
	return m, cmd
}

// applySnapshot installs a fresh snapshot. A paused view drops it.
func (m Model) applySnapshot(snap *model.SystemSnapshot) (tea.Model, tea.Cmd) {
	m.refreshing = false
	if snap == nil || m.view.Paused {
		return m, nil
	}
	m.snap = snap
	m.hist.Append(snap)
	m.view.SetVisibleHeight(m.tableHeight())
	m.view.Rebuild(snap.Processes)
	if m.view.CountIteration() {
		return m, tea.Quit
	}
	return m, nil
}

// handleKey dispatches a key press. A pending error swallows the key.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lastError != "" {
		m.lastError = ""
		return m, nil
	}
	m.statusText = ""
	if h := modeHandlers[m.mode]; h != nil {
		return h(m, msg)
	}
	return m, nil
}

func digit(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	return r, r >= '0' && r <= '9'
}

func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if r, ok := digit(msg); ok {
		m.view.PIDSearch(r, m.now())
		return m, nil
	}

	k := m.keys
	v := m.view
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Redraw):
		if m.src != nil && !m.refreshing && !v.Paused {
			m.refreshing = true
			return m, tea.Batch(tea.ClearScreen, m.refreshCmd())
		}
		return m, tea.ClearScreen

	// Navigation
	case key.Matches(msg, k.Up):
		v.MoveUp()
	case key.Matches(msg, k.Down):
		v.MoveDown()
	case key.Matches(msg, k.PageUp):
		v.PageUp()
	case key.Matches(msg, k.PageDown):
		v.PageDown()
	case key.Matches(msg, k.Home):
		v.Home()
	case key.Matches(msg, k.End):
		v.End()
	case key.Matches(msg, k.FindNext):
		v.FindNext()

	// Tags
	case key.Matches(msg, k.Tag):
		v.ToggleTag()
		v.MoveDown()
	case key.Matches(msg, k.UntagAll):
		v.UntagAll()
	case key.Matches(msg, k.TagChildren):
		v.TagWithChildren()

	// View toggles
	case key.Matches(msg, k.Follow):
		v.ToggleFollow()
	case key.Matches(msg, k.Pause):
		v.Paused = !v.Paused
		if !v.Paused && m.src != nil && !m.refreshing {
			m.refreshing = true
			return m, m.refreshCmd()
		}
	case key.Matches(msg, k.ToggleHeader):
		m.showHeader = !m.showHeader
		v.SetVisibleHeight(m.tableHeight())
	case key.Matches(msg, k.Kernel):
		m.cfg.ShowKernelThreads = !m.cfg.ShowKernelThreads
		m.applyConfig(m.cfg)
		m.saveConfig()
	case key.Matches(msg, k.UserProcs):
		m.cfg.ShowUserThreads = !m.cfg.ShowUserThreads
		m.applyConfig(m.cfg)
		m.saveConfig()
	case key.Matches(msg, k.ProgramPath):
		m.cfg.ShowProgramPath = !m.cfg.ShowProgramPath
		m.applyConfig(m.cfg)
		m.saveConfig()
	case key.Matches(msg, k.Tree):
		v.ToggleTree()

	// Tree
	case key.Matches(msg, k.Expand):
		v.Expand()
	case key.Matches(msg, k.Collapse):
		v.Collapse()
	case key.Matches(msg, k.CollapseAll):
		v.ToggleCollapseAll()
	case key.Matches(msg, k.CollapseParent):
		v.CollapseToParent()

	// Sorting
	case key.Matches(msg, k.SortPID):
		v.SetSortColumn(model.ColPID)
	case key.Matches(msg, k.SortCPU):
		v.SetSortColumn(model.ColCPU)
	case key.Matches(msg, k.SortMem):
		v.SetSortColumn(model.ColMem)
	case key.Matches(msg, k.SortTime):
		v.SetSortColumn(model.ColTime)
	case key.Matches(msg, k.Invert):
		v.InvertSort()
	case key.Matches(msg, k.SortSelect):
		m.cursor = max(0, slices.Index(model.AllColumns(), v.Sorter.Column))
		m.mode = sortSelectMode

	// Search / filter
	case key.Matches(msg, k.Search):
		m.mode = searchMode
		m.searchInput.SetValue("")
		v.SetSearch("")
		return m, m.searchInput.Focus()
	case key.Matches(msg, k.Filter):
		m.mode = filterMode
		m.filterInput.SetValue(v.Filter())
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()

	// Dialogs
	case key.Matches(msg, k.Help):
		m.openScroll(helpMode)
	case key.Matches(msg, k.Setup):
		m.cursor = 0
		m.mode = setupMode
	case key.Matches(msg, k.UserSelect):
		m.cursor = max(0, slices.Index(m.userChoices(), v.UserFilter()))
		m.mode = userSelectMode
	case key.Matches(msg, k.Kill):
		return m.openKill()
	case key.Matches(msg, k.PriorityUp):
		m.openPriority(true)
	case key.Matches(msg, k.PriorityDown):
		m.openPriority(false)
	case key.Matches(msg, k.Info):
		return m.openInfo()
	case key.Matches(msg, k.Affinity):
		m.openAffinity()
	case key.Matches(msg, k.CommandWrap):
		if m.captureTarget() {
			m.openScroll(commandWrapMode)
		}
	case key.Matches(msg, k.Environment):
		if m.captureTarget() {
			m.openScroll(environmentMode)
		}
	}
	return m, nil
}

// captureTarget snapshots the selection for the dialog about to open.
func (m *Model) captureTarget() bool {
	sel, ok := m.view.Selected()
	if !ok {
		return false
	}
	m.target = sel
	return true
}

func (m *Model) openScroll(mode uiMode) {
	m.dialogScroll = 0
	m.cursor = 0
	m.mode = mode
}

func (m *Model) closeDialog() {
	m.mode = normalMode
	m.cursor = 0
	m.dialogScroll = 0
}

// openKill targets the tagged processes, or the selection when nothing is
// tagged.
func (m Model) openKill() (tea.Model, tea.Cmd) {
	hasSel := m.captureTarget()
	tagged := m.view.TaggedPIDs()
	switch {
	case len(tagged) > 0:
		m.killPIDs = tagged
	case hasSel:
		m.killPIDs = []uint32{m.target.PID}
	default:
		return m, nil
	}
	if !m.cfg.ConfirmKill {
		return m.terminate(action.SigTerm)
	}
	m.cursor = 0
	m.mode = killMode
	return m, nil
}

func (m Model) terminate(code uint32) (tea.Model, tea.Cmd) {
	pids := m.killPIDs
	m.killPIDs = nil
	m.closeDialog()
	if len(pids) == 0 {
		return m, nil
	}
	results := m.exec.Terminate(pids, code)
	m.view.UntagAll()
	if err := action.FirstError(results); err != nil {
		m.lastError = err.Error()
		return m, nil
	}
	return m, m.showStatus(fmt.Sprintf("Sent signal %d to %d process(es)", code, len(pids)), false)
}

func (m *Model) openPriority(raise bool) {
	if !m.captureTarget() {
		return
	}
	cur := model.PriorityClassFromBase(m.target.BasePriority)
	next := cur.Lower()
	if raise {
		next = cur.Higher()
	}
	m.cursor = max(0, slices.Index(model.PriorityClasses, next))
	m.mode = priorityMode
}

func (m Model) openInfo() (tea.Model, tea.Cmd) {
	if !m.captureTarget() {
		return m, nil
	}
	m.openScroll(processInfoMode)
	m.info = processInfo{}
	if m.src != nil {
		d, err := m.src.Details(m.target.PID)
		m.info.details, m.info.detailsErr = d, err
		m.info.read, m.info.write = d.IOReadBytes, d.IOWriteBytes
	}
	return m, m.ioCmd(m.target.PID)
}

func allMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<n - 1
}

func (m *Model) openAffinity() {
	if !m.captureTarget() {
		return
	}
	n := m.coreCount()
	if n == 0 {
		n = runtime.NumCPU()
	}
	mask := allMask(n)
	if m.src != nil {
		d, err := m.src.Details(m.target.PID)
		if err != nil {
			m.lastError = err.Error()
			return
		}
		if d.SystemMask != 0 {
			n = bits.Len64(d.SystemMask)
		}
		mask = d.AffinityMask
	}
	m.affinityCPUs = min(n, 64)
	m.affinity = mask & allMask(m.affinityCPUs)
	m.cursor = 0
	m.mode = affinityMode
}

// moveCursor applies list navigation keys to the cursor of an n-line
// dialog and reports whether msg was one.
func (m *Model) moveCursor(msg tea.KeyMsg, n int) bool {
	switch {
	case key.Matches(msg, keyUp):
		m.cursor--
	case key.Matches(msg, keyDown):
		m.cursor++
	case key.Matches(msg, keyPgUp):
		m.cursor -= m.dialogPage()
	case key.Matches(msg, keyPgDown):
		m.cursor += m.dialogPage()
	case msg.String() == "home":
		m.cursor = 0
	case msg.String() == "end":
		m.cursor = n - 1
	default:
		return false
	}
	m.cursor = max(0, min(m.cursor, n-1))
	return true
}

func (m *Model) scrollBy(delta int) {
	m.dialogScroll = max(0, min(m.dialogScroll+delta, m.dialogLen()-m.dialogPage()))
}

// handleScrollMode serves the read-only dialogs.
func (m Model) handleScrollMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyClose), key.Matches(msg, keyConfirm), msg.String() == "f1" && m.mode == helpMode:
		m.closeDialog()
	case key.Matches(msg, keyUp):
		m.scrollBy(-1)
	case key.Matches(msg, keyDown):
		m.scrollBy(1)
	case key.Matches(msg, keyPgUp):
		m.scrollBy(-m.dialogPage())
	case key.Matches(msg, keyPgDown):
		m.scrollBy(m.dialogPage())
	case msg.String() == "home":
		m.dialogScroll = 0
	case msg.String() == "end":
		m.scrollBy(m.dialogLen())
	}
	return m, nil
}

func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.view.SetSearch("")
		m.mode = normalMode
		return m, nil
	case "enter":
		m.searchInput.Blur()
		m.mode = normalMode
		return m, nil
	case "f3":
		m.view.FindNext()
		return m, nil
	case "up":
		m.view.MoveUp()
		return m, nil
	case "down":
		m.view.MoveDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.view.Search() {
		m.view.SetSearch(m.searchInput.Value())
	}
	return m, cmd
}

func (m Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		m.view.SetFilter("")
		m.mode = normalMode
		return m, nil
	case "enter":
		m.filterInput.Blur()
		m.mode = normalMode
		return m, nil
	case "up":
		m.view.MoveUp()
		return m, nil
	case "down":
		m.view.MoveDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filterInput.Value() != m.view.Filter() {
		m.view.SetFilter(m.filterInput.Value())
	}
	return m, cmd
}

func (m Model) handleSortSelectMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := model.AllColumns()
	if m.moveCursor(msg, len(cols)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, keyConfirm):
		if col := cols[m.cursor]; col != m.view.Sorter.Column {
			m.view.SetSortColumn(col)
		}
		m.closeDialog()
	case key.Matches(msg, keyClose):
		m.closeDialog()
	}
	return m, nil
}

func (m Model) handleKillMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y", " ":
		return m.terminate(action.SigTerm)
	case "9":
		return m.terminate(action.SigKill)
	case "s":
		m.cursor = 0
		m.mode = signalSelectMode
	case "esc", "q", "n":
		m.killPIDs = nil
		m.closeDialog()
	}
	return m, nil
}

func (m Model) handleSignalSelectMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg, len(action.Signals)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, keyConfirm):
		return m.terminate(action.Signals[m.cursor].Number)
	case key.Matches(msg, keyClose):
		m.cursor = 0
		m.mode = killMode
	}
	return m, nil
}

func (m Model) handlePriorityMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg, len(model.PriorityClasses)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, keyConfirm):
		class := model.PriorityClasses[m.cursor]
		t := m.target
		m.closeDialog()
		if err := m.exec.SetPriority(t.PID, class); err != nil {
			m.lastError = err.Error()
			return m, nil
		}
		return m, m.showStatus(fmt.Sprintf("Priority of %s (%d) set to %s", t.Name, t.PID, class), false)
	case key.Matches(msg, keyClose):
		m.closeDialog()
	}
	return m, nil
}

func (m Model) handleSetupMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg, int(setupCount)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, keyConfirm), key.Matches(msg, keyToggle):
		m.changeSetting(setupItem(m.cursor))
	case key.Matches(msg, keyClose), msg.String() == "f2":
		m.closeDialog()
	}
	return m, nil
}

// changeSetting cycles or toggles one setup item and saves the result.
// The color scheme and column items open their own dialogs instead.
func (m *Model) changeSetting(item setupItem) {
	c := m.cfg
	switch item {
	case setupRefresh:
		c.RefreshRateMs = c.NextRefreshRate()
	case setupCPUMeter:
		c.CPUMeterMode = c.CPUMeterMode.Next()
	case setupMemMeter:
		c.MemoryMeterMode = c.MemoryMeterMode.Next()
	case setupKernel:
		c.ShowKernelThreads = !c.ShowKernelThreads
	case setupUser:
		c.ShowUserThreads = !c.ShowUserThreads
	case setupPath:
		c.ShowProgramPath = !c.ShowProgramPath
	case setupHighlightNew:
		c.HighlightNewProcesses = !c.HighlightNewProcesses
	case setupLargeNumbers:
		c.HighlightLargeNumbers = !c.HighlightLargeNumbers
	case setupBasename:
		c.HighlightBasename = !c.HighlightBasename
	case setupTree:
		c.TreeViewDefault = !c.TreeViewDefault
	case setupConfirmKill:
		c.ConfirmKill = !c.ConfirmKill
	case setupColorScheme:
		m.cursor = max(0, slices.Index(config.ColorSchemes, c.ColorScheme))
		m.returnMode = setupMode
		m.mode = colorSchemeMode
		return
	case setupColumns:
		m.colEdit = newColumnEdit(m.columns)
		m.cursor = 0
		m.returnMode = setupMode
		m.mode = columnConfigMode
		return
	}
	m.applyConfig(c)
	m.saveConfig()
}

// backToSetup returns from a sub-dialog with the cursor on item.
func (m *Model) backToSetup(item setupItem) {
	if m.returnMode != setupMode {
		m.closeDialog()
		return
	}
	m.mode = setupMode
	m.cursor = int(item)
}

func (m Model) handleColorSchemeMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg, len(config.ColorSchemes)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, keyConfirm):
		m.cfg.ColorScheme = config.ColorSchemes[m.cursor]
		m.applyConfig(m.cfg)
		m.saveConfig()
		m.backToSetup(setupColorScheme)
	case key.Matches(msg, keyClose):
		m.backToSetup(setupColorScheme)
	}
	return m, nil
}

func (m Model) handleColumnConfigMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg, len(m.colEdit)) {
		return m, nil
	}
	i := m.cursor
	switch msg.String() {
	case " ":
		if i >= len(m.colEdit) {
			break
		}
		if m.colEdit[i].on && m.visibleEdits() == 1 {
			return m, m.showStatus("At least one column must stay visible", false)
		}
		m.colEdit = slices.Clone(m.colEdit)
		m.colEdit[i].on = !m.colEdit[i].on
	case "K", "[", "shift+up":
		if i > 0 && i < len(m.colEdit) {
			m.colEdit = slices.Clone(m.colEdit)
			m.colEdit[i-1], m.colEdit[i] = m.colEdit[i], m.colEdit[i-1]
			m.cursor--
		}
	case "J", "]", "shift+down":
		if i+1 < len(m.colEdit) {
			m.colEdit = slices.Clone(m.colEdit)
			m.colEdit[i+1], m.colEdit[i] = m.colEdit[i], m.colEdit[i+1]
			m.cursor++
		}
	case "esc", "q", "enter":
		var cols []model.Column
		for _, e := range m.colEdit {
			if e.on {
				cols = append(cols, e.col)
			}
		}
		m.cfg.SetColumns(cols)
		m.applyConfig(m.cfg)
		m.saveConfig()
		m.colEdit = nil
		m.backToSetup(setupColumns)
	}
	return m, nil
}

func (m Model) visibleEdits() int {
	n := 0
	for _, e := range m.colEdit {
		if e.on {
			n++
		}
	}
	return n
}

func (m Model) handleUserSelectMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	users := m.userChoices()
	if m.moveCursor(msg, len(users)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, keyConfirm):
		if m.cursor == 0 {
			m.view.SetUserFilter("")
		} else {
			m.view.SetUserFilter(users[m.cursor])
		}
		m.closeDialog()
	case key.Matches(msg, keyClose):
		m.closeDialog()
	}
	return m, nil
}

func (m Model) handleAffinityMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg, m.affinityCPUs) {
		return m, nil
	}
	switch msg.String() {
	case " ":
		m.affinity ^= 1 << m.cursor
	case "a":
		m.affinity = allMask(m.affinityCPUs)
	case "n":
		m.affinity = 0
	case "enter":
		if err := m.exec.SetAffinity(m.target.PID, m.affinity); err != nil {
			m.lastError = err.Error()
			return m, nil
		}
		t := m.target
		m.closeDialog()
		return m, m.showStatus(fmt.Sprintf("Affinity of %s (%d) set to %#x", t.Name, t.PID, m.affinity), false)
	case "esc", "q":
		m.closeDialog()
	}
	return m, nil
}

// Mouse

// inDialog reports whether a boxed dialog is open.
func (m Model) inDialog() bool {
	return m.mode != normalMode && m.mode != searchMode && m.mode != filterMode
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	if m.lastError != "" {
		m.lastError = ""
		return m, nil
	}
	el, hit := m.bounds.HitTest(msg.X, msg.Y)

	if m.inDialog() {
		return m.handleDialogMouse(msg, el, hit)
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.view.Move(-wheelStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.view.Move(wheelStep)
		return m, nil
	}
	if !hit {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		return m.handleLeftClick(el)
	case tea.MouseButtonRight:
		if m.selectRow(el) {
			m.view.ToggleTag()
		}
	case tea.MouseButtonMiddle:
		if m.selectRow(el) {
			return m.openKill()
		}
	}
	return m, nil
}

// selectRow selects the process under a row element.
func (m Model) selectRow(el Element) bool {
	if el.Kind != ElemProcessRow {
		return false
	}
	idx := m.view.ScrollOffset() + el.Index
	if idx >= m.view.Len() {
		return false
	}
	m.view.SelectIndex(idx)
	return true
}

func (m Model) handleLeftClick(el Element) (tea.Model, tea.Cmd) {
	switch el.Kind {
	case ElemProcessRow:
		if !m.selectRow(el) {
			return m, nil
		}
		idx := m.view.SelectedIndex()
		now := m.now()
		if idx == m.lastClickRow && now.Sub(m.lastClickAt) <= doubleClick {
			m.lastClickAt = time.Time{}
			if m.view.TreeView() {
				m.view.TagWithChildren()
				return m, nil
			}
			return m.openInfo()
		}
		m.lastClickRow, m.lastClickAt = idx, now

	case ElemColumnHeader:
		m.view.SetSortColumn(model.Column(el.Index))

	case ElemCPUMeter:
		m.cfg.CPUMeterMode = m.cfg.CPUMeterMode.Next()
		m.saveConfig()

	case ElemMemMeter, ElemSwapMeter:
		m.cfg.MemoryMeterMode = m.cfg.MemoryMeterMode.Next()
		m.saveConfig()

	case ElemFunctionKey:
		if el.Index < 1 || el.Index > len(fkeyTypes) {
			return m, nil
		}
		press := tea.KeyMsg{Type: fkeyTypes[el.Index-1]}
		if m.mode == searchMode {
			return m.handleSearchMode(press)
		}
		return m.handleNormalMode(press)
	}
	return m, nil
}

// handleDialogMouse scrolls, picks or closes the open dialog.
func (m Model) handleDialogMouse(msg tea.MouseMsg, el Element, hit bool) (tea.Model, tea.Cmd) {
	d, _ := m.dialogFor()
	step := 0
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		step = -wheelStep
	case tea.MouseButtonWheelDown:
		step = wheelStep
	case tea.MouseButtonRight:
		m.closeDialog()
		return m, nil
	case tea.MouseButtonLeft:
		if !hit || el.Kind != ElemDialog {
			m.closeDialog()
			return m, nil
		}
		if d.cursor >= 0 && el.Index >= 0 && el.Index < len(d.lines) {
			m.cursor = el.Index
		}
		return m, nil
	}

	if step != 0 {
		if d.cursor >= 0 {
			m.cursor = max(0, min(m.cursor+step, len(d.lines)-1))
		} else {
			m.scrollBy(step)
		}
	}
	return m, nil
}
