package model

import "strings"

// Column identifies one process table column.
type Column int

const (
	ColPID Column = iota
	ColPPID
	ColUser
	ColPriority
	ColNice
	ColThreads
	ColVirt
	ColRes
	ColShr
	ColStatus
	ColCPU
	ColMem
	ColTime
	ColStart
	ColCommand
	ColElevated
	ColArch
	ColEfficiency

	columnCount
)

type columnInfo struct {
	name  string
	width int
	right bool
}

var columns = [columnCount]columnInfo{
	ColPID:        {"PID", 6, true},
	ColPPID:       {"PPID", 6, true},
	ColUser:       {"USER", 10, false},
	ColPriority:   {"PRI", 3, true},
	ColNice:       {"NI", 3, true},
	ColThreads:    {"THR", 4, true},
	ColVirt:       {"VIRT", 6, true},
	ColRes:        {"RES", 6, true},
	ColShr:        {"SHR", 6, true},
	ColStatus:     {"S", 3, false},
	ColCPU:        {"CPU%", 5, true},
	ColMem:        {"MEM%", 5, true},
	ColTime:       {"TIME+", 9, true},
	ColStart:      {"START", 7, true},
	ColCommand:    {"Command", 20, false},
	ColElevated:   {"ELEV", 4, false},
	ColArch:       {"ARCH", 4, true},
	ColEfficiency: {"ECO", 3, false},
}

// AllColumns returns every column in canonical order.
func AllColumns() []Column {
	out := make([]Column, 0, columnCount)
	for c := Column(0); c < columnCount; c++ {
		out = append(out, c)
	}
	return out
}

// DefaultColumns is the htop-like default column set.
func DefaultColumns() []Column {
	return []Column{
		ColPID, ColUser, ColPriority, ColNice, ColVirt, ColRes, ColShr,
		ColStatus, ColCPU, ColMem, ColTime, ColCommand,
	}
}

// Name returns the header label, also used as the config identifier.
func (c Column) Name() string {
	if c < 0 || c >= columnCount {
		return "?"
	}
	return columns[c].name
}

func (c Column) String() string { return c.Name() }

// Width returns the fixed width; for Command it is the minimum width.
func (c Column) Width() int {
	if c < 0 || c >= columnCount {
		return 0
	}
	return columns[c].width
}

// RightAligned reports whether values are right-aligned.
func (c Column) RightAligned() bool {
	if c < 0 || c >= columnCount {
		return false
	}
	return columns[c].right
}

var columnAliases = map[string]Column{
	"pid":        ColPID,
	"ppid":       ColPPID,
	"user":       ColUser,
	"pri":        ColPriority,
	"priority":   ColPriority,
	"ni":         ColNice,
	"nice":       ColNice,
	"thr":        ColThreads,
	"threads":    ColThreads,
	"virt":       ColVirt,
	"res":        ColRes,
	"shr":        ColShr,
	"s":          ColStatus,
	"status":     ColStatus,
	"cpu":        ColCPU,
	"cpu%":       ColCPU,
	"mem":        ColMem,
	"mem%":       ColMem,
	"memory":     ColMem,
	"time":       ColTime,
	"time+":      ColTime,
	"start":      ColStart,
	"command":    ColCommand,
	"cmd":        ColCommand,
	"elev":       ColElevated,
	"elevated":   ColElevated,
	"arch":       ColArch,
	"eco":        ColEfficiency,
	"efficiency": ColEfficiency,
}

// ParseColumn resolves a header name or alias, case-insensitively.
func ParseColumn(s string) (Column, bool) {
	c, ok := columnAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// ParseColumns resolves names, dropping unknown ones and duplicates.
func ParseColumns(names []string) []Column {
	seen := make(map[Column]bool, len(names))
	out := make([]Column, 0, len(names))
	for _, n := range names {
		c, ok := ParseColumn(n)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// ColumnNames is the inverse of ParseColumns.
func ColumnNames(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name()
	}
	return out
}
