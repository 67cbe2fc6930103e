package monitor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/phuslu/log"

	"github.com/faratech/htop-win/metrics"
	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/proc"
)

const (
	cleanupEvery     = 10
	efficiencyTTL    = 30 * time.Second
	enrichmentMargin = 10
)

// Enricher performs the per-process queries behind the lazy fields.
type Enricher interface {
	Owner(pid uint32) (string, error)
	Static(pid uint32, withPath bool) (proc.StaticInfo, error)
	Efficiency(pid uint32) (bool, error)
}

// Entry is the cached state of one (pid, create time) pair. All lazy fields
// are reset together when the create time changes.
type Entry struct {
	CreateTime uint64
	KernelTime uint64
	UserTime   uint64
	SampledAt  time.Time

	Owner         string
	OwnerResolved bool

	Static         proc.StaticInfo
	StaticResolved bool
	PathResolved   bool

	Efficiency   bool
	EfficiencyAt time.Time
}

// Cache derives CPU percentages from tick-to-tick deltas and memoises
// enrichment results. Update and EnrichWindow may run on different
// goroutines; each takes the write lock exactly once.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint32]*Entry
	ticks   atomic.Uint64

	enricher Enricher
	exe      *ExeStatusCache
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewCache(e Enricher, m *metrics.Metrics) *Cache {
	return &Cache{
		entries:  make(map[uint32]*Entry),
		enricher: e,
		exe:      NewExeStatusCache(m),
		metrics:  m,
		now:      time.Now,
	}
}

// Len returns the number of cached PIDs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lookup returns a copy of the entry for pid.
func (c *Cache) Lookup(pid uint32) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[pid]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

type ownerResult struct {
	idx   int
	owner string
}

// Update computes CPUPercent for every record, copies cached lazy fields into
// the records and resolves owners of first-seen processes.
func (c *Cache) Update(procs []model.ProcessRecord) {
	now := c.now()
	deltas := make([]uint64, len(procs))
	fresh := make([]bool, len(procs))
	var pending []int
	var total uint64

	c.mu.RLock()
	for i := range procs {
		p := &procs[i]
		e, ok := c.entries[p.PID]
		if !ok || e.CreateTime != p.CreateTime {
			fresh[i] = true
			pending = append(pending, i)
			continue
		}
		cur := p.KernelTime + p.UserTime
		prev := e.KernelTime + e.UserTime
		if cur > prev {
			deltas[i] = cur - prev
			total += deltas[i]
		}
		copyLazy(p, e)
		if !e.OwnerResolved {
			pending = append(pending, i)
		}
	}
	c.mu.RUnlock()

	for i := range procs {
		p := &procs[i]
		p.CPUPercent = 0
		if p.PID == model.IdlePID || total == 0 || deltas[i] == 0 {
			continue
		}
		p.CPUPercent = float64(deltas[i]) * 100 / float64(total)
	}

	owners := make([]ownerResult, 0, len(pending))
	for _, i := range pending {
		owner, err := c.enricher.Owner(procs[i].PID)
		if err != nil {
			log.Debug().Err(err).Uint32("pid", procs[i].PID).Msg("owner lookup failed")
		}
		owners = append(owners, ownerResult{idx: i, owner: owner})
		procs[i].SetUser(owner)
	}

	tick := c.ticks.Add(1) - 1

	c.mu.Lock()
	for i := range procs {
		p := &procs[i]
		e, ok := c.entries[p.PID]
		if ok && fresh[i] {
			c.metrics.Invalidation()
		}
		if !ok || fresh[i] {
			e = &Entry{CreateTime: p.CreateTime}
			c.entries[p.PID] = e
		}
		e.KernelTime = p.KernelTime
		e.UserTime = p.UserTime
		e.SampledAt = now
	}
	for _, r := range owners {
		e := c.entries[procs[r.idx].PID]
		e.Owner = r.owner
		e.OwnerResolved = true
	}
	// An empty table is a failed probe, not every process exiting.
	if tick%cleanupEvery == 0 && len(procs) > 0 {
		c.cleanupLocked(procs)
	}
	c.mu.Unlock()
}

func (c *Cache) cleanupLocked(procs []model.ProcessRecord) {
	alive := make(map[uint32]struct{}, len(procs))
	for i := range procs {
		alive[procs[i].PID] = struct{}{}
	}
	for pid := range c.entries {
		if _, ok := alive[pid]; !ok {
			delete(c.entries, pid)
		}
	}
	c.metrics.Cleanup()
}

func copyLazy(p *model.ProcessRecord, e *Entry) {
	if e.OwnerResolved {
		p.SetUser(e.Owner)
	}
	if e.StaticResolved {
		p.IsElevated = e.Static.Elevated
		p.Arch = e.Static.Arch
		p.ExePath = e.Static.ExePath
	}
	p.EfficiencyMode = e.Efficiency
}

type enrichJob struct {
	idx        int
	static     bool
	efficiency bool
}

type enrichResult struct {
	enrichJob
	createTime uint64
	info       proc.StaticInfo
	eff        bool
}

// EnrichWindow resolves tier B and C fields for rows, which the caller limits
// to the visible window plus a margin. Results are written back only if the
// cached create time still matches.
func (c *Cache) EnrichWindow(rows []model.ProcessRecord, withPath bool) {
	if len(rows) == 0 {
		return
	}
	now := c.now()

	var jobs []enrichJob
	c.mu.RLock()
	for i := range rows {
		p := &rows[i]
		e, ok := c.entries[p.PID]
		if !ok || e.CreateTime != p.CreateTime {
			continue
		}
		copyLazy(p, e)
		j := enrichJob{
			idx:        i,
			static:     !e.StaticResolved || (withPath && !e.PathResolved),
			efficiency: e.EfficiencyAt.IsZero() || now.Sub(e.EfficiencyAt) >= efficiencyTTL,
		}
		if p.PID == model.IdlePID || p.PID == model.SystemPID {
			j.static = !e.StaticResolved
			j.efficiency = false
		}
		if j.static || j.efficiency {
			jobs = append(jobs, j)
		}
	}
	c.mu.RUnlock()

	results := make([]enrichResult, 0, len(jobs))
	for _, j := range jobs {
		p := &rows[j.idx]
		r := enrichResult{enrichJob: j, createTime: p.CreateTime}
		if j.static {
			if p.PID == model.IdlePID || p.PID == model.SystemPID {
				r.info = proc.StaticInfo{}
			} else {
				info, err := c.enricher.Static(p.PID, withPath)
				if err != nil {
					log.Debug().Err(err).Uint32("pid", p.PID).Msg("static info lookup failed")
				}
				r.info = info
			}
		}
		if j.efficiency {
			eff, err := c.enricher.Efficiency(p.PID)
			if err != nil {
				log.Trace().Err(err).Uint32("pid", p.PID).Msg("efficiency lookup failed")
			}
			r.eff = eff
		}
		results = append(results, r)
	}

	if len(results) > 0 {
		c.mu.Lock()
		for _, r := range results {
			p := &rows[r.idx]
			e, ok := c.entries[p.PID]
			if !ok || e.CreateTime != r.createTime {
				continue
			}
			if r.static {
				e.Static = r.info
				e.StaticResolved = true
				e.PathResolved = e.PathResolved || withPath
			}
			if r.efficiency {
				e.Efficiency = r.eff
				e.EfficiencyAt = now
			}
			copyLazy(p, e)
		}
		c.mu.Unlock()
	}

	for i := range rows {
		p := &rows[i]
		if p.ExePath == "" {
			p.ExeUpdated, p.ExeDeleted = false, false
			continue
		}
		p.ExeUpdated, p.ExeDeleted = c.exe.Check(p.ExePath, p.StartTime)
	}
}
