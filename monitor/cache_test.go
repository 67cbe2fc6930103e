package monitor

import (
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faratech/htop-win/metrics"
	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/proc"
)

func byPID(recs []model.ProcessRecord) map[uint32]model.ProcessRecord {
	out := make(map[uint32]model.ProcessRecord, len(recs))
	for _, r := range recs {
		out[r.PID] = r
	}
	return out
}

func TestCacheFirstTickIsZero(t *testing.T) {
	c := NewCache(newFakeEnricher(), nil)
	recs := []model.ProcessRecord{rec(0, 0, 1, 1000), rec(10, 4, 1, 500)}
	c.Update(recs)
	for _, r := range recs {
		assert.Zero(t, r.CPUPercent)
	}
}

func TestCacheCPUPercentFromDeltas(t *testing.T) {
	c := NewCache(newFakeEnricher(), nil)
	c.Update([]model.ProcessRecord{rec(0, 0, 1, 1000), rec(10, 4, 1, 100), rec(20, 4, 1, 100)})

	recs := []model.ProcessRecord{rec(0, 0, 1, 1600), rec(10, 4, 1, 300), rec(20, 4, 1, 300)}
	c.Update(recs)

	got := byPID(recs)
	assert.Zero(t, got[0].CPUPercent, "idle process never shows CPU")
	assert.InDelta(t, 20.0, got[10].CPUPercent, 1e-9)
	assert.InDelta(t, 20.0, got[20].CPUPercent, 1e-9)

	var sum float64
	for _, r := range recs {
		assert.GreaterOrEqual(t, r.CPUPercent, 0.0)
		sum += r.CPUPercent
	}
	assert.LessOrEqual(t, sum, 100.0+1e-9)
}

func TestCacheCountersGoingBackwardsSaturate(t *testing.T) {
	c := NewCache(newFakeEnricher(), nil)
	c.Update([]model.ProcessRecord{rec(0, 0, 1, 1000), rec(10, 4, 1, 500)})
	recs := []model.ProcessRecord{rec(0, 0, 1, 2000), rec(10, 4, 1, 100)}
	c.Update(recs)
	assert.Zero(t, byPID(recs)[10].CPUPercent)
}

func TestCachePIDReuse(t *testing.T) {
	f := newFakeEnricher()
	f.owners[500] = "alice"
	f.static = proc.StaticInfo{Elevated: true, Arch: model.ArchX86}
	m := metrics.New()
	c := NewCache(f, m)

	tick1 := []model.ProcessRecord{rec(0, 0, 1, 1000), rec(500, 4, 10, 100)}
	c.Update(tick1)
	c.EnrichWindow(tick1, false)
	e, ok := c.Lookup(500)
	require.True(t, ok)
	assert.True(t, e.StaticResolved)

	f.owners[500] = "bob"
	tick2 := []model.ProcessRecord{rec(0, 0, 1, 2000), rec(500, 4, 20, 900)}
	c.Update(tick2)

	p := byPID(tick2)[500]
	assert.Zero(t, p.CPUPercent)
	assert.Equal(t, "bob", p.User)
	assert.Equal(t, 2, f.ownerCalls[500], "owner re-resolved after reuse")

	e, ok = c.Lookup(500)
	require.True(t, ok)
	assert.Equal(t, uint64(20), e.CreateTime)
	assert.Equal(t, "bob", e.Owner)
	assert.False(t, e.StaticResolved, "lazy fields cleared together")
	assert.False(t, e.Static.Elevated)
	assert.Equal(t, model.ArchNative, e.Static.Arch)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Invalidations))
}

func TestCacheNoRepeatedResolution(t *testing.T) {
	f := newFakeEnricher()
	f.owners[42] = "alice"
	c := NewCache(f, nil)

	for i := 0; i < 2; i++ {
		recs := []model.ProcessRecord{rec(42, 4, 7, uint64(100*(i+1)))}
		c.Update(recs)
		c.EnrichWindow(recs, false)
		assert.Equal(t, "alice", recs[0].User)
	}
	assert.Equal(t, 1, f.ownerCalls[42])
	assert.Equal(t, 1, f.staticCalls[42])
}

func TestCacheKernelPIDsSkipStaticLookups(t *testing.T) {
	f := newFakeEnricher()
	c := NewCache(f, nil)
	recs := []model.ProcessRecord{rec(0, 0, 1, 10), rec(4, 0, 1, 10)}
	c.Update(recs)
	c.EnrichWindow(recs, true)
	assert.Zero(t, f.staticCalls[0])
	assert.Zero(t, f.staticCalls[4])
	assert.Zero(t, f.effCalls[4])
}

func TestCacheEfficiencyTTL(t *testing.T) {
	f := newFakeEnricher()
	f.efficient = true
	c := NewCache(f, nil)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	recs := []model.ProcessRecord{rec(42, 4, 7, 100)}
	c.Update(recs)
	c.EnrichWindow(recs, false)
	assert.True(t, recs[0].EfficiencyMode)
	assert.Equal(t, 1, f.effCalls[42])

	now = now.Add(10 * time.Second)
	c.EnrichWindow(recs, false)
	assert.Equal(t, 1, f.effCalls[42])

	now = now.Add(21 * time.Second)
	c.EnrichWindow(recs, false)
	assert.Equal(t, 2, f.effCalls[42])
}

func TestCacheExePathOnDemand(t *testing.T) {
	f := newFakeEnricher()
	f.static = proc.StaticInfo{ExePath: `C:\Tools\p.exe`}
	c := NewCache(f, nil)
	c.exe.stat = func(string) (os.FileInfo, error) { return fakeFile{}, nil }

	recs := []model.ProcessRecord{rec(42, 4, 7, 100)}
	c.Update(recs)

	c.EnrichWindow(recs, false)
	assert.Empty(t, recs[0].ExePath)
	assert.Zero(t, f.pathCalls[42])

	c.EnrichWindow(recs, true)
	assert.Equal(t, `C:\Tools\p.exe`, recs[0].ExePath)
	assert.Equal(t, 1, f.pathCalls[42])

	c.EnrichWindow(recs, true)
	assert.Equal(t, 2, f.staticCalls[42])
	assert.Equal(t, 1, f.pathCalls[42])
}

func TestCacheEnrichWindowIgnoresStaleRows(t *testing.T) {
	f := newFakeEnricher()
	c := NewCache(f, nil)
	c.Update([]model.ProcessRecord{rec(42, 4, 7, 100)})

	stale := []model.ProcessRecord{rec(42, 4, 99, 100)}
	c.EnrichWindow(stale, false)
	assert.Zero(t, f.staticCalls[42])
}

func TestCacheCleanupEveryTenTicks(t *testing.T) {
	m := metrics.New()
	c := NewCache(newFakeEnricher(), m)

	c.Update([]model.ProcessRecord{rec(1, 0, 1, 0), rec(2, 0, 1, 0)})
	for i := 0; i < 9; i++ {
		c.Update([]model.ProcessRecord{rec(1, 0, 1, 0)})
	}
	assert.Equal(t, 2, c.Len(), "exited PID kept until the next cleanup")

	c.Update([]model.ProcessRecord{rec(1, 0, 1, 0)})
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Cleanups))
}

func TestCacheEmptyTableSkipsCleanup(t *testing.T) {
	m := metrics.New()
	c := NewCache(newFakeEnricher(), m)

	for i := 0; i < 10; i++ {
		c.Update([]model.ProcessRecord{rec(1, 0, 1, 100), rec(2, 0, 1, 100)})
	}
	c.Update(nil)
	assert.Equal(t, 2, c.Len(), "failed probe keeps the cache")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cleanups))

	procs := []model.ProcessRecord{rec(1, 0, 1, 300), rec(2, 0, 1, 100)}
	c.Update(procs)
	assert.Equal(t, 100.0, procs[0].CPUPercent)
	assert.Zero(t, testutil.ToFloat64(m.Invalidations))
}
