package monitor

import (
	"time"

	"github.com/phuslu/log"

	"github.com/faratech/htop-win/metrics"
	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/proc"
)

// ProcessSource returns the raw process table of one tick.
type ProcessSource interface {
	Processes() ([]model.ProcessRecord, error)
}

// SystemSource provides the machine-wide aggregates.
type SystemSource interface {
	CPU() ([]float64, []model.CoreBreakdown, error)
	Memory() (proc.Memory, error)
	Net() (rx, tx uint64, err error)
	Uptime() uint64
	Hostname() string
	Battery() proc.Battery
}

// hostSource reads the aggregates from the running machine.
type hostSource struct {
	cpu *proc.CPUSampler
}

func NewHostSource() SystemSource {
	return &hostSource{cpu: proc.NewCPUSampler()}
}

func (h *hostSource) CPU() ([]float64, []model.CoreBreakdown, error) { return h.cpu.Sample() }
func (h *hostSource) Memory() (proc.Memory, error) { return proc.ReadMemory() }
func (h *hostSource) Net() (uint64, uint64, error) { return proc.ReadNetTotals() }
func (h *hostSource) Uptime() uint64 { return proc.ReadUptime() }
func (h *hostSource) Hostname() string { return proc.Hostname() }
func (h *hostSource) Battery() proc.Battery { return proc.ReadBattery() }

// Collector runs one tick of the pipeline: probe, cache update and
// aggregates. It is driven from a single goroutine at a time.
type Collector struct {
	procs   ProcessSource
	system  SystemSource
	cache   *Cache
	metrics *metrics.Metrics
	now     func() time.Time

	primed    bool
	prevAt    time.Time
	prevRx    uint64
	prevTx    uint64
	prevRead  uint64
	prevWrite uint64
}

func NewCollector(procs ProcessSource, system SystemSource, cache *Cache, m *metrics.Metrics) *Collector {
	return &Collector{
		procs:   procs,
		system:  system,
		cache:   cache,
		metrics: m,
		now:     time.Now,
	}
}

// Collect never fails: every source degrades to zero values and the error is
// logged.
func (c *Collector) Collect() *model.SystemSnapshot {
	start := c.now()
	snap := &model.SystemSnapshot{TakenAt: start}

	recs, err := c.procs.Processes()
	if err != nil {
		log.Warn().Err(err).Msg("process query failed")
	}
	c.cache.Update(recs)

	if usage, split, err := c.system.CPU(); err == nil {
		snap.CoreUsage = usage
		snap.CoreBreakdown = split
	} else {
		log.Debug().Err(err).Msg("cpu times unavailable")
	}

	if mem, err := c.system.Memory(); err == nil {
		snap.MemTotal = mem.Total
		snap.MemUsed = mem.Used
		snap.MemCached = mem.Cached
		snap.SwapTotal = mem.SwapTotal
		snap.SwapUsed = mem.SwapUsed
	} else {
		log.Debug().Err(err).Msg("memory status unavailable")
	}

	for i := range recs {
		p := &recs[i]
		if snap.MemTotal > 0 {
			p.MemPercent = float64(p.ResidentBytes) * 100 / float64(snap.MemTotal)
		}
		p.Status = deriveStatus(p)
		if p.Status == model.StatusRunning {
			snap.TasksRunning++
		}
		snap.ThreadsTotal += int(p.ThreadCount)
		snap.DiskReadBytes += p.ReadBytes
		snap.DiskWriteBytes += p.WriteBytes
	}
	snap.Processes = recs
	snap.TasksTotal = len(recs)

	if rx, tx, err := c.system.Net(); err == nil {
		snap.NetRxBytes, snap.NetTxBytes = rx, tx
	}
	snap.Uptime = c.system.Uptime()
	snap.Hostname = c.system.Hostname()
	if b := c.system.Battery(); b.Present {
		snap.HasBattery = true
		snap.BatteryPercent = b.Percent
		snap.BatteryCharging = b.Charging
	}

	c.computeRates(snap, start)
	c.metrics.Refreshed(c.now().Sub(start), len(recs))
	return snap
}

func (c *Collector) computeRates(snap *model.SystemSnapshot, at time.Time) {
	if c.primed {
		if secs := at.Sub(c.prevAt).Seconds(); secs > 0 {
			snap.NetRxRate = rate(snap.NetRxBytes, c.prevRx, secs)
			snap.NetTxRate = rate(snap.NetTxBytes, c.prevTx, secs)
			snap.DiskReadRate = rate(snap.DiskReadBytes, c.prevRead, secs)
			snap.DiskWriteRate = rate(snap.DiskWriteBytes, c.prevWrite, secs)
		}
	}
	c.primed = true
	c.prevAt = at
	c.prevRx, c.prevTx = snap.NetRxBytes, snap.NetTxBytes
	c.prevRead, c.prevWrite = snap.DiskReadBytes, snap.DiskWriteBytes
}

func rate(cur, prev uint64, secs float64) uint64 {
	if cur <= prev {
		return 0
	}
	return uint64(float64(cur-prev) / secs)
}

// deriveStatus maps a Windows process onto the htop state letters. Windows
// exposes no sleep state, so anything that did not run this tick sleeps.
func deriveStatus(p *model.ProcessRecord) model.Status {
	switch {
	case p.PID == model.IdlePID:
		return model.StatusIdle
	case p.ThreadCount == 0:
		return model.StatusZombie
	case p.CPUPercent > 0:
		return model.StatusRunning
	default:
		return model.StatusSleeping
	}
}
