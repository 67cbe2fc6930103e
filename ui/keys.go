package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the Normal mode bindings. The help dialog is generated from
// the same bindings so the two cannot drift apart.
type keyMap struct {
	Quit     key.Binding
	Redraw   key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Tag         key.Binding
	UntagAll    key.Binding
	TagChildren key.Binding

	UserSelect   key.Binding
	Follow       key.Binding
	Pause        key.Binding
	ToggleHeader key.Binding
	Kernel       key.Binding
	UserProcs    key.Binding
	ProgramPath  key.Binding
	CommandWrap  key.Binding
	Affinity     key.Binding
	Environment  key.Binding

	Expand         key.Binding
	Collapse       key.Binding
	CollapseAll    key.Binding
	CollapseParent key.Binding

	Help         key.Binding
	Setup        key.Binding
	Search       key.Binding
	Filter       key.Binding
	Tree         key.Binding
	SortSelect   key.Binding
	PriorityUp   key.Binding
	PriorityDown key.Binding
	Kill         key.Binding
	FindNext     key.Binding
	Info         key.Binding

	SortPID  key.Binding
	SortCPU  key.Binding
	SortMem  key.Binding
	SortTime key.Binding
	Invert   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("f10", "q", "Q", "ctrl+c"), key.WithHelp("F10 q", "quit")),
		Redraw:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^L", "refresh now")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑ k", "select previous")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓ j", "select next")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("Home g", "first process")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("End G", "last process")),

		Tag:         key.NewBinding(key.WithKeys(" "), key.WithHelp("Space", "tag process")),
		UntagAll:    key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "untag all")),
		TagChildren: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "tag process and children")),

		UserSelect:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "show one user's processes")),
		Follow:       key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "follow process")),
		Pause:        key.NewBinding(key.WithKeys("Z"), key.WithHelp("Z", "pause updates")),
		ToggleHeader: key.NewBinding(key.WithKeys("#"), key.WithHelp("#", "hide/show meters")),
		Kernel:       key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "hide/show system processes")),
		UserProcs:    key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide/show user processes")),
		ProgramPath:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "show program path")),
		CommandWrap:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wrap command line")),
		Affinity:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "set CPU affinity")),
		Environment:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "show environment")),

		Expand:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "expand subtree")),
		Collapse:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "collapse subtree")),
		CollapseAll:    key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "collapse/expand all")),
		CollapseParent: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("Bksp", "collapse to parent")),

		Help:         key.NewBinding(key.WithKeys("f1", "?"), key.WithHelp("F1 ?", "help")),
		Setup:        key.NewBinding(key.WithKeys("f2", "S"), key.WithHelp("F2 S", "setup")),
		Search:       key.NewBinding(key.WithKeys("f3", "/"), key.WithHelp("F3 /", "search")),
		Filter:       key.NewBinding(key.WithKeys("f4", "\\"), key.WithHelp("F4 \\", "filter")),
		Tree:         key.NewBinding(key.WithKeys("f5", "t"), key.WithHelp("F5 t", "tree view")),
		SortSelect:   key.NewBinding(key.WithKeys("f6", ">", ".", "<", ","), key.WithHelp("F6 < >", "sort by column")),
		PriorityUp:   key.NewBinding(key.WithKeys("f7", "]"), key.WithHelp("F7 ]", "raise priority")),
		PriorityDown: key.NewBinding(key.WithKeys("f8", "["), key.WithHelp("F8 [", "lower priority")),
		Kill:         key.NewBinding(key.WithKeys("f9", "ctrl+k"), key.WithHelp("F9", "kill process")),
		FindNext:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next search match")),
		Info:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "process details")),

		SortPID:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "sort by PID")),
		SortCPU:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "sort by CPU%")),
		SortMem:  key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "sort by MEM%")),
		SortTime: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "sort by TIME")),
		Invert:   key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "invert sort order")),
	}
}

// helpGroups orders the bindings for the help dialog.
func (k keyMap) helpGroups() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.FindNext, k.Info},
		{k.Help, k.Setup, k.Search, k.Filter, k.Tree, k.SortSelect, k.PriorityUp, k.PriorityDown, k.Kill, k.Quit},
		{k.Tag, k.UntagAll, k.TagChildren, k.UserSelect, k.Follow, k.Pause, k.Redraw},
		{k.ToggleHeader, k.Kernel, k.UserProcs, k.ProgramPath, k.CommandWrap, k.Affinity, k.Environment},
		{k.Expand, k.Collapse, k.CollapseAll, k.CollapseParent},
		{k.SortPID, k.SortCPU, k.SortMem, k.SortTime, k.Invert},
	}
}

// Bindings shared by the dialogs.
var (
	keyClose   = key.NewBinding(key.WithKeys("esc", "q"))
	keyConfirm = key.NewBinding(key.WithKeys("enter"))
	keyUp      = key.NewBinding(key.WithKeys("up", "k"))
	keyDown    = key.NewBinding(key.WithKeys("down", "j"))
	keyPgUp    = key.NewBinding(key.WithKeys("pgup"))
	keyPgDown  = key.NewBinding(key.WithKeys("pgdown"))
	keyToggle  = key.NewBinding(key.WithKeys(" "))
)
