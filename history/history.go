package history

import "github.com/faratech/htop-win/model"

// Capacity is the number of samples kept per series.
const Capacity = 512

// History holds one CPU series per core plus memory and swap series, all in
// percent.
type History struct {
	cores []*Ring[float64]
	mem   *Ring[float64]
	swap  *Ring[float64]
}

func New() *History {
	return &History{
		mem:  NewRing[float64](Capacity),
		swap: NewRing[float64](Capacity),
	}
}

// Append records one snapshot. A change in core count starts the per-core
// series over.
func (h *History) Append(s *model.SystemSnapshot) {
	if len(h.cores) != len(s.CoreUsage) {
		h.cores = make([]*Ring[float64], len(s.CoreUsage))
		for i := range h.cores {
			h.cores[i] = NewRing[float64](Capacity)
		}
	}
	for i, u := range s.CoreUsage {
		h.cores[i].Push(u)
	}
	h.mem.Push(s.MemPercent())
	h.swap.Push(s.SwapPercent())
}

func (h *History) Cores() int { return len(h.cores) }

// Core returns up to n of the newest samples of core i.
func (h *History) Core(i, n int) []float64 {
	if i < 0 || i >= len(h.cores) {
		return nil
	}
	return h.cores[i].Newest(n)
}

func (h *History) Memory(n int) []float64 { return h.mem.Newest(n) }

func (h *History) Swap(n int) []float64 { return h.swap.Newest(n) }
