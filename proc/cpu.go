package proc

import (
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/faratech/htop-win/model"
)

// CPUSampler turns cumulative per-core times into per-tick usage. The first
// sample yields zeros.
type CPUSampler struct {
	prev  []cpu.TimesStat
	times func(percpu bool) ([]cpu.TimesStat, error)
}

func NewCPUSampler() *CPUSampler {
	return &CPUSampler{times: cpu.Times}
}

// Sample returns the busy percentage and the user/system/idle split of each
// core since the previous call.
func (s *CPUSampler) Sample() ([]float64, []model.CoreBreakdown, error) {
	cur, err := s.times(true)
	if err != nil {
		return nil, nil, err
	}
	usage := make([]float64, len(cur))
	split := make([]model.CoreBreakdown, len(cur))

	if len(s.prev) == len(cur) {
		for i := range cur {
			usage[i], split[i] = coreDelta(s.prev[i], cur[i])
		}
	}
	s.prev = cur
	return usage, split, nil
}

func coreDelta(prev, cur cpu.TimesStat) (float64, model.CoreBreakdown) {
	user := positive(cur.User - prev.User)
	system := positive(cur.System-prev.System) + positive(cur.Irq-prev.Irq)
	idle := positive(cur.Idle - prev.Idle)
	total := user + system + idle
	if total <= 0 {
		return 0, model.CoreBreakdown{}
	}
	b := model.CoreBreakdown{
		User:   user * 100 / total,
		System: system * 100 / total,
		Idle:   idle * 100 / total,
	}
	return b.User + b.System, b
}

func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
