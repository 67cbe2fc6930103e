package ui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/phuslu/log"

	"github.com/faratech/htop-win/action"
	"github.com/faratech/htop-win/config"
	"github.com/faratech/htop-win/history"
	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/proc"
	"github.com/faratech/htop-win/view"
)

// Source is the collection pipeline the UI drives. monitor.Engine
// implements it.
type Source interface {
	Refresh() *model.SystemSnapshot
	EnrichWindow(rows []model.ProcessRecord, withPath bool)
	Details(pid uint32) (proc.Details, error)
	IOCounters(pid uint32) (read, write uint64, err error)
}

// Options configures a Model. Config is owned by the model afterwards.
type Options struct {
	Config     *config.Config
	ConfigPath string // empty disables saving and live reload

	// Overrides re-applies command-line settings to a reloaded config.
	Overrides func(*config.Config)

	Source   Source
	Executor *action.Executor

	NoColor       bool
	HideMeters    bool
	MaxIterations int

	UserFilter string
	Filter     string
	PIDs       []uint32
	Sort       *model.Column
}

// processInfo is the state of the Process Info dialog.
type processInfo struct {
	details    proc.Details
	detailsErr error
	read       uint64
	write      uint64
	ioErr      error
}

// Model holds TUI state
type Model struct {
	src  Source
	view *view.Engine
	hist *history.History
	exec *action.Executor
	keys keyMap

	cfg       *config.Config
	cfgPath   string
	overrides func(*config.Config)
	theme     Theme
	noColor   bool

	snap    *model.SystemSnapshot
	columns []model.Column

	width  int
	height int
	mode   uiMode

	showHeader bool
	refreshing bool

	bounds *Bounds

	searchInput textinput.Model
	filterInput textinput.Model

	// Dialog state. target is captured when a dialog opens and used
	// instead of the live selection until it closes.
	target       model.ProcessRecord
	cursor       int
	dialogScroll int
	killPIDs     []uint32
	affinity     uint64
	affinityCPUs int
	colEdit      []columnEntry
	info         processInfo
	returnMode   uiMode

	lastError  string
	statusText string

	lastClickRow int
	lastClickAt  time.Time

	now func() time.Time
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	si := textinput.New()
	si.Prompt = ""
	si.CharLimit = 64

	fi := textinput.New()
	fi.Prompt = ""
	fi.CharLimit = 64

	var enricher view.Enricher
	if opts.Source != nil {
		enricher = opts.Source
	}
	v := view.NewEngine(enricher)
	v.MaxIterations = opts.MaxIterations
	if opts.Sort != nil {
		v.Sorter.Column = *opts.Sort
	}
	v.SetUserFilter(opts.UserFilter)
	v.SetPIDWhitelist(opts.PIDs)
	if opts.Filter != "" {
		v.SetFilter(opts.Filter)
		fi.SetValue(opts.Filter)
	}

	m := Model{
		src:         opts.Source,
		view:        v,
		hist:        history.New(),
		exec:        opts.Executor,
		keys:        newKeyMap(),
		cfgPath:     opts.ConfigPath,
		overrides:   opts.Overrides,
		noColor:     opts.NoColor,
		showHeader:  !opts.HideMeters,
		refreshing:  opts.Source != nil,
		bounds:      &Bounds{},
		searchInput: si,
		filterInput: fi,
		width:       80,
		height:      24,
		now:         time.Now,
	}
	if m.exec == nil {
		m.exec = action.NewExecutor(proc.NewController(), cfg.ReadOnly, nil)
	}
	m.applyConfig(cfg)
	v.SetTreeView(cfg.TreeViewDefault)
	v.SetVisibleHeight(m.tableHeight())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(),
		tickCmd(m.interval()),
	)
}

// applyConfig installs cfg and pushes its settings into the view.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.columns = cfg.Columns()
	m.view.ShowKernel = cfg.ShowKernelThreads
	m.view.ShowUser = cfg.ShowUserThreads
	m.view.ShowProgramPath = cfg.ShowProgramPath
	m.exec.SetReadOnly(cfg.ReadOnly)

	m.theme = ThemeByName(cfg.ColorScheme)
	if m.noColor {
		m.theme = monochromeTheme()
	}
	m.view.Refresh()
}

// saveConfig persists the config; failures surface as the pending error.
func (m *Model) saveConfig() {
	if m.cfgPath == "" {
		return
	}
	if err := config.SaveConfig(m.cfgPath, m.cfg); err != nil {
		m.lastError = err.Error()
	}
}

func (m Model) interval() time.Duration {
	return time.Duration(m.cfg.RefreshRateMs) * time.Millisecond
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd collects a snapshot off the update loop.
func (m Model) refreshCmd() tea.Cmd {
	src := m.src
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg{snap: src.Refresh()}
	}
}

func (m Model) ioCmd(pid uint32) tea.Cmd {
	src := m.src
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		r, w, err := src.IOCounters(pid)
		return ioMsg{pid: pid, read: r, write: w, err: err}
	}
}

func (m Model) showStatus(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

// headerHeight is the number of meter rows, 0 when the meters are hidden.
func (m Model) headerHeight() int {
	if !m.showHeader {
		return 0
	}
	left, right := headerMeters(m.coreCount())
	return max(len(left), len(right))
}

// tableHeight is the number of process rows that fit.
func (m Model) tableHeight() int {
	return max(1, m.height-m.headerHeight()-1-footerHeight)
}

func (m Model) coreCount() int {
	if m.snap == nil {
		return 0
	}
	return len(m.snap.CoreUsage)
}

// Apply feeds a snapshot through the same path as a refresh message. The
// headless benchmark uses it together with Frame.
func (m Model) Apply(snap *model.SystemSnapshot) Model {
	next, _ := m.applySnapshot(snap)
	return next.(Model)
}

// Resize sets the terminal size as a resize event would.
func (m Model) Resize(w, h int) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(Model)
}

// Frame renders the current state.
func (m Model) Frame() string {
	return m.View()
}

// Run starts the interactive program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if m.cfg.MouseEnabled {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, progOpts...)

	if opts.ConfigPath != "" {
		go watchConfig(ctx, p, opts.ConfigPath)
	}

	_, err := p.Run()
	return err
}

// watchConfig forwards external edits of the config file to the program.
func watchConfig(ctx context.Context, p *tea.Program, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Debug().Err(err).Msg("config watch disabled")
		return
	}
	err := config.Watch(ctx, path, func(cfg *config.Config) {
		p.Send(configMsg{cfg: cfg})
	})
	if err != nil {
		log.Warn().Err(err).Msg("config watch stopped")
	}
}
