package model

import (
	"cmp"
	"slices"
	"strings"
)

type Sorter struct {
	Column     Column
	Descending bool
}

func NewSorter() *Sorter {
	return &Sorter{
		Column:     ColCPU,
		Descending: true, // Default: highest CPU first
	}
}

// Toggle flips direction when col is already active, otherwise switches to
// col sorted descending.
func (s *Sorter) Toggle(col Column) {
	if s.Column == col {
		s.Descending = !s.Descending
	} else {
		s.Column = col
		s.Descending = true
	}
}

// Invert flips the direction of the active column.
func (s *Sorter) Invert() {
	s.Descending = !s.Descending
}

// Sort orders records in place. The sort is not stable.
func (s *Sorter) Sort(records []ProcessRecord) {
	compare := Comparator(s.Column)
	if s.Descending {
		slices.SortFunc(records, func(a, b ProcessRecord) int {
			return compare(&b, &a)
		})
		return
	}
	slices.SortFunc(records, func(a, b ProcessRecord) int {
		return compare(&a, &b)
	})
}

func (s *Sorter) ColumnName() string {
	return s.Column.Name()
}

// compareFloat orders floats with NaN comparing equal to everything.
func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Comparator returns the ascending three-way comparison for col.
func Comparator(col Column) func(a, b *ProcessRecord) int {
	switch col {
	case ColPID:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.PID, b.PID) }
	case ColPPID:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.ParentPID, b.ParentPID) }
	case ColUser:
		return func(a, b *ProcessRecord) int { return strings.Compare(a.UserLower, b.UserLower) }
	case ColPriority:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.Priority, b.Priority) }
	case ColNice:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.Nice, b.Nice) }
	case ColThreads:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.ThreadCount, b.ThreadCount) }
	case ColVirt:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.VirtualBytes, b.VirtualBytes) }
	case ColRes:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.ResidentBytes, b.ResidentBytes) }
	case ColShr:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.SharedBytes, b.SharedBytes) }
	case ColStatus:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.Status, b.Status) }
	case ColMem:
		return func(a, b *ProcessRecord) int { return compareFloat(a.MemPercent, b.MemPercent) }
	case ColTime:
		return func(a, b *ProcessRecord) int {
			return cmp.Compare(a.KernelTime+a.UserTime, b.KernelTime+b.UserTime)
		}
	case ColStart:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.CreateTime, b.CreateTime) }
	case ColCommand:
		return func(a, b *ProcessRecord) int { return strings.Compare(a.CommandLower, b.CommandLower) }
	case ColElevated:
		return func(a, b *ProcessRecord) int { return compareBool(a.IsElevated, b.IsElevated) }
	case ColArch:
		return func(a, b *ProcessRecord) int { return cmp.Compare(a.Arch, b.Arch) }
	case ColEfficiency:
		return func(a, b *ProcessRecord) int { return compareBool(a.EfficiencyMode, b.EfficiencyMode) }
	default:
		return func(a, b *ProcessRecord) int { return compareFloat(a.CPUPercent, b.CPUPercent) }
	}
}
