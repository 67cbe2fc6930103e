package monitor

import (
	"context"
	"time"

	"github.com/faratech/htop-win/metrics"
	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/proc"
)

// Inspector adds the dialog-only queries to an Enricher.
type Inspector interface {
	Enricher
	Details(pid uint32) (proc.Details, error)
	IOCounters(pid uint32) (read, write uint64, err error)
}

// Engine bundles the collection pipeline behind the operations the UI and
// the headless runner need.
type Engine struct {
	Collector *Collector
	Cache     *Cache
	inspector Inspector
}

func NewEngine(m *metrics.Metrics) *Engine {
	return NewEngineWith(proc.NewProbe(m), NewHostSource(), proc.NewInspector(m), m)
}

// NewEngineWith wires explicit sources, which lets tests run the pipeline
// against fakes.
func NewEngineWith(procs ProcessSource, system SystemSource, ins Inspector, m *metrics.Metrics) *Engine {
	cache := NewCache(ins, m)
	return &Engine{
		Collector: NewCollector(procs, system, cache, m),
		Cache:     cache,
		inspector: ins,
	}
}

// Refresh collects one snapshot.
func (e *Engine) Refresh() *model.SystemSnapshot {
	return e.Collector.Collect()
}

func (e *Engine) EnrichWindow(rows []model.ProcessRecord, withPath bool) {
	e.Cache.EnrichWindow(rows, withPath)
}

func (e *Engine) Details(pid uint32) (proc.Details, error) {
	return e.inspector.Details(pid)
}

func (e *Engine) IOCounters(pid uint32) (uint64, uint64, error) {
	return e.inspector.IOCounters(pid)
}

// Run refreshes every interval until ctx is done, handing each snapshot to
// fn. It returns ctx.Err() or nil when fn asks to stop.
func (e *Engine) Run(ctx context.Context, interval time.Duration, fn func(*model.SystemSnapshot) bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if !fn(e.Refresh()) {
				return nil
			}
		}
	}
}
