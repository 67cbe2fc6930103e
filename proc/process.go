package proc

import (
	"github.com/faratech/htop-win/metrics"
	"github.com/faratech/htop-win/model"
)

// Probe enumerates every process with a single kernel query per call. The
// query buffer is owned by the probe and reused across ticks; it grows on
// demand and never shrinks. A Probe is not safe for concurrent use.
type Probe struct {
	buf     []byte
	metrics *metrics.Metrics
}

func NewProbe(m *metrics.Metrics) *Probe {
	return &Probe{metrics: m}
}

// BufferSize reports the current query buffer capacity.
func (p *Probe) BufferSize() int {
	return len(p.buf)
}

// Processes returns the current process table. On failure the slice is empty
// and the error wraps ErrProbeFailed.
func (p *Probe) Processes() ([]model.ProcessRecord, error) {
	p.metrics.ProbeQuery()
	recs, err := p.query()
	if err != nil {
		p.metrics.ProbeFailure()
		return []model.ProcessRecord{}, err
	}
	return recs, nil
}
