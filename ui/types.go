package ui

import (
	"time"

	"github.com/faratech/htop-win/config"
	"github.com/faratech/htop-win/model"
)

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snap *model.SystemSnapshot
}

type statusMsg struct {
	text    string
	isError bool
}

// configMsg carries a configuration reloaded from disk.
type configMsg struct {
	cfg *config.Config
}

// ioMsg carries refreshed counters for the Process Info dialog.
type ioMsg struct {
	pid         uint32
	read, write uint64
	err         error
}

// UI Modes

type uiMode int

const (
	normalMode uiMode = iota
	helpMode
	searchMode
	filterMode
	sortSelectMode
	killMode
	signalSelectMode
	priorityMode
	setupMode
	processInfoMode
	userSelectMode
	environmentMode
	colorSchemeMode
	commandWrapMode
	columnConfigMode
	affinityMode

	modeCount
)

func (m uiMode) String() string {
	switch m {
	case helpMode:
		return "Help"
	case searchMode:
		return "Search"
	case filterMode:
		return "Filter"
	case sortSelectMode:
		return "SortSelect"
	case killMode:
		return "Kill"
	case signalSelectMode:
		return "SignalSelect"
	case priorityMode:
		return "Priority"
	case setupMode:
		return "Setup"
	case processInfoMode:
		return "ProcessInfo"
	case userSelectMode:
		return "UserSelect"
	case environmentMode:
		return "Environment"
	case colorSchemeMode:
		return "ColorScheme"
	case commandWrapMode:
		return "CommandWrap"
	case columnConfigMode:
		return "ColumnConfig"
	case affinityMode:
		return "Affinity"
	default:
		return "Normal"
	}
}
