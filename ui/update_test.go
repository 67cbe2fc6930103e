package ui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faratech/htop-win/action"
	"github.com/faratech/htop-win/config"
	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/proc"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type call struct {
	op  string
	pid uint32
	arg uint64
}

type fakeController struct {
	calls []call
	fail  map[uint32]error
}

func (f *fakeController) Terminate(pid, code uint32) error {
	f.calls = append(f.calls, call{"terminate", pid, uint64(code)})
	return f.fail[pid]
}

func (f *fakeController) SetPriorityClass(pid, class uint32) error {
	f.calls = append(f.calls, call{"priority", pid, uint64(class)})
	return f.fail[pid]
}

func (f *fakeController) SetAffinity(pid uint32, mask uint64) error {
	f.calls = append(f.calls, call{"affinity", pid, mask})
	return f.fail[pid]
}

type fakeSource struct {
	snap    *model.SystemSnapshot
	details proc.Details
	err     error
}

func (f *fakeSource) Refresh() *model.SystemSnapshot                    { return f.snap }
func (f *fakeSource) EnrichWindow(rows []model.ProcessRecord, path bool) {}
func (f *fakeSource) Details(pid uint32) (proc.Details, error)          { return f.details, f.err }
func (f *fakeSource) IOCounters(pid uint32) (uint64, uint64, error) {
	return f.details.IOReadBytes, f.details.IOWriteBytes, f.err
}

func record(pid uint32, name string, cpu float64) model.ProcessRecord {
	p := model.ProcessRecord{PID: pid, ParentPID: 1, ThreadCount: 2, Status: model.StatusSleeping}
	p.SetName(name)
	p.SetCommand(name + ".exe")
	p.SetUser("alice")
	p.CPUPercent = cpu
	return p
}

func sampleRecords(n int) []model.ProcessRecord {
	out := make([]model.ProcessRecord, n)
	for i := range out {
		out[i] = record(uint32(100+i), "proc", float64(i))
	}
	return out
}

func testSnapshot(procs ...model.ProcessRecord) *model.SystemSnapshot {
	return &model.SystemSnapshot{
		Processes:     procs,
		CoreUsage:     []float64{10, 20, 30, 40},
		CoreBreakdown: make([]model.CoreBreakdown, 4),
		MemTotal:      16 * gib,
		MemUsed:       8 * gib,
		SwapTotal:     4 * gib,
		SwapUsed:      gib,
		Hostname:      "test",
		TasksTotal:    len(procs),
	}
}

func newTestModel(t *testing.T, opts Options) (Model, *fakeController) {
	t.Helper()
	ctl := &fakeController{}
	if opts.Executor == nil {
		opts.Executor = action.NewExecutor(ctl, false, nil)
	}
	m := NewModel(opts)
	m.now = func() time.Time { return testNow }
	return m.Resize(120, 40), ctl
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(m Model, x, y int, button tea.MouseButton) Model {
	m, _ = send(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: button})
	return m
}

func selectPID(t *testing.T, m Model, pid uint32) {
	t.Helper()
	for i, p := range m.view.Rows() {
		if p.PID == pid {
			m.view.SelectIndex(i)
			return
		}
	}
	t.Fatalf("pid %d not displayed", pid)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestMemoryMeterClickCyclesAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "htop-win", "config.json")
	m, _ := newTestModel(t, Options{ConfigPath: path})
	m = m.Apply(testSnapshot(sampleRecords(5)...))

	for _, want := range []config.MeterMode{config.MeterText, config.MeterGraph, config.MeterHidden, config.MeterBar} {
		m.Frame()
		r, ok := m.bounds.Find(Element{Kind: ElemMemMeter})
		require.True(t, ok)

		m = click(m, r.X+1, r.Y, tea.MouseButtonLeft)
		assert.Equal(t, want, m.cfg.MemoryMeterMode)

		saved, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, want, saved.MemoryMeterMode)
	}
}

func TestCPUMeterClickCycles(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(sampleRecords(5)...))
	m.Frame()
	r, ok := m.bounds.Find(Element{Kind: ElemCPUMeter, Index: 3})
	require.True(t, ok)

	m = click(m, r.X, r.Y, tea.MouseButtonLeft)
	assert.Equal(t, config.MeterText, m.cfg.CPUMeterMode)
	assert.Equal(t, config.MeterBar, m.cfg.MemoryMeterMode)
}

func TestTaggedTerminate(t *testing.T) {
	m, ctl := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(
		record(101, "a", 1), record(202, "b", 2), record(303, "c", 3), record(404, "d", 4),
	))
	for _, pid := range []uint32{101, 202, 303} {
		selectPID(t, m, pid)
		m.view.ToggleTag()
	}
	selectPID(t, m, 404)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF9})
	require.Equal(t, killMode, m.mode)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []call{
		{"terminate", 101, 15},
		{"terminate", 202, 15},
		{"terminate", 303, 15},
	}, ctl.calls)
	assert.Empty(t, m.view.TaggedPIDs())
	assert.Equal(t, normalMode, m.mode)
	assert.Empty(t, m.lastError)
}

func TestKillUsesCapturedTarget(t *testing.T) {
	m, ctl := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(record(101, "a", 1), record(202, "b", 2)))
	selectPID(t, m, 202)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF9})
	selectPID(t, m, 101)
	m, _ = send(m, runes("9"))

	assert.Equal(t, []call{{"terminate", 202, 9}}, ctl.calls)
}

func TestKillWithoutConfirmation(t *testing.T) {
	cfg := config.Default()
	cfg.ConfirmKill = false
	m, ctl := newTestModel(t, Options{Config: cfg})
	m = m.Apply(testSnapshot(record(101, "a", 1)))

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF9})
	assert.Equal(t, normalMode, m.mode)
	assert.Equal(t, []call{{"terminate", 101, 15}}, ctl.calls)
}

func TestSignalDialog(t *testing.T) {
	m, ctl := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(record(101, "a", 1)))

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF9})
	m, _ = send(m, runes("s"))
	require.Equal(t, signalSelectMode, m.mode)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []call{{"terminate", 101, uint64(action.Signals[2].Number)}}, ctl.calls)
}

func TestTerminateFailureShowsError(t *testing.T) {
	m, ctl := newTestModel(t, Options{})
	ctl.fail = map[uint32]error{101: errors.New("Access is denied.")}
	m = m.Apply(testSnapshot(record(101, "a", 1)))

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF9})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Access is denied.", m.lastError)
	assert.Contains(t, m.Frame(), "Error: Access is denied.")
}

func TestPendingErrorConsumesKey(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.lastError = "boom"

	m, cmd := send(m, runes("q"))
	assert.False(t, isQuit(cmd))
	assert.Empty(t, m.lastError)

	_, cmd = send(m, runes("q"))
	assert.True(t, isQuit(cmd))
}

func TestMaxIterationsQuits(t *testing.T) {
	m, _ := newTestModel(t, Options{MaxIterations: 3})
	snap := testSnapshot(sampleRecords(3)...)

	for i := 0; i < 2; i++ {
		var cmd tea.Cmd
		m, cmd = send(m, snapshotMsg{snap: snap})
		assert.False(t, isQuit(cmd))
	}
	_, cmd := send(m, snapshotMsg{snap: snap})
	assert.True(t, isQuit(cmd))
}

func TestPausedDropsSnapshots(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(sampleRecords(3)...))
	m, _ = send(m, runes("Z"))
	require.True(t, m.view.Paused)

	m = m.Apply(testSnapshot(sampleRecords(10)...))
	assert.Equal(t, 3, m.view.Len())
}

func TestEmptyAffinityRejected(t *testing.T) {
	src := &fakeSource{details: proc.Details{AffinityMask: 0b0011, SystemMask: 0b1111}}
	m, ctl := newTestModel(t, Options{Source: src})
	m = m.Apply(testSnapshot(record(101, "a", 1)))

	m, _ = send(m, runes("a"))
	require.Equal(t, affinityMode, m.mode)
	assert.Equal(t, 4, m.affinityCPUs)
	assert.Equal(t, uint64(0b0011), m.affinity)

	m, _ = send(m, runes("n"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, action.ErrEmptyAffinity.Error(), m.lastError)
	assert.Equal(t, affinityMode, m.mode)
	assert.Empty(t, ctl.calls)

	m, _ = send(m, runes("x"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, normalMode, m.mode)
	assert.Equal(t, []call{{"affinity", 101, 0b0010}}, ctl.calls)
}

func TestPriorityDialogPreselectsNeighbour(t *testing.T) {
	m, ctl := newTestModel(t, Options{})
	p := record(101, "a", 1)
	p.BasePriority = model.PriorityNormal.BasePriority()
	m = m.Apply(testSnapshot(p))

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF7})
	require.Equal(t, priorityMode, m.mode)
	assert.Equal(t, model.PriorityAboveNormal, model.PriorityClasses[m.cursor])

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []call{{"priority", 101, uint64(model.AboveNormalPriorityClassValue)}}, ctl.calls)
}

func TestLiveFilterAndSearch(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(record(1, "notepad", 1), record(2, "explorer", 2)))

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF4})
	for _, r := range "not" {
		m, _ = send(m, runes(string(r)))
	}
	require.Equal(t, 1, m.view.Len())
	assert.Equal(t, uint32(1), m.view.Rows()[0].PID)
	assert.Equal(t, 0, m.view.SelectedIndex())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 2, m.view.Len())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF3})
	for _, r := range "note" {
		m, _ = send(m, runes(string(r)))
	}
	sel, ok := m.view.Selected()
	require.True(t, ok)
	assert.Equal(t, uint32(1), sel.PID)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, normalMode, m.mode)
	assert.Equal(t, "note", m.view.Search())
}

func TestMouseRowClicks(t *testing.T) {
	m, ctl := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(sampleRecords(5)...))
	m.Frame()

	r, ok := m.bounds.Find(Element{Kind: ElemProcessRow, Index: 2})
	require.True(t, ok)
	m = click(m, r.X+3, r.Y, tea.MouseButtonLeft)
	assert.Equal(t, 2, m.view.SelectedIndex())

	m = click(m, r.X+3, r.Y, tea.MouseButtonLeft)
	assert.Equal(t, processInfoMode, m.mode)

	// Right-click anywhere closes a dialog.
	m.Frame()
	m = click(m, 0, 0, tea.MouseButtonRight)
	assert.Equal(t, normalMode, m.mode)

	m.Frame()
	m = click(m, r.X, r.Y, tea.MouseButtonRight)
	sel, _ := m.view.Selected()
	assert.True(t, m.view.IsTagged(sel.PID))

	m.Frame()
	m = click(m, r.X, r.Y, tea.MouseButtonMiddle)
	assert.Equal(t, killMode, m.mode)
	assert.Equal(t, []uint32{sel.PID}, m.killPIDs)
	assert.Empty(t, ctl.calls)
}

func TestColumnHeaderClickSorts(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(sampleRecords(5)...))
	m.Frame()

	r, ok := m.bounds.Find(Element{Kind: ElemColumnHeader, Index: int(model.ColPID)})
	require.True(t, ok)
	m = click(m, r.X, r.Y, tea.MouseButtonLeft)
	assert.Equal(t, model.ColPID, m.view.Sorter.Column)
}

func TestFunctionKeyClick(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(sampleRecords(5)...))
	m.Frame()

	r, ok := m.bounds.Find(Element{Kind: ElemFunctionKey, Index: 1})
	require.True(t, ok)
	m = click(m, r.X, r.Y, tea.MouseButtonLeft)
	assert.Equal(t, helpMode, m.mode)
}

func TestPIDSearchDigits(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(record(5, "a", 3), record(120, "b", 2), record(300, "c", 1)))

	m, _ = send(m, runes("1"))
	m, _ = send(m, runes("2"))
	sel, ok := m.view.Selected()
	require.True(t, ok)
	assert.Equal(t, uint32(120), sel.PID)
}

func TestColumnConfigKeepsOneVisible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := config.Default()
	cfg.SetColumns([]model.Column{model.ColPID})
	m, _ := newTestModel(t, Options{Config: cfg, ConfigPath: path})

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF2})
	m.cursor = int(setupColumns)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, columnConfigMode, m.mode)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, m.colEdit[0].on)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = send(m, runes("K"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, setupMode, m.mode)
	assert.Equal(t, []model.Column{model.ColPPID, model.ColPID}, m.columns)
	saved, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Column{model.ColPPID, model.ColPID}, saved.Columns())
}
