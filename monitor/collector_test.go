package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faratech/htop-win/metrics"
	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/proc"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name string
		rec  model.ProcessRecord
		want model.Status
	}{
		{"idle", model.ProcessRecord{PID: 0, ThreadCount: 8, CPUPercent: 50}, model.StatusIdle},
		{"no threads", model.ProcessRecord{PID: 12, ThreadCount: 0}, model.StatusZombie},
		{"busy", model.ProcessRecord{PID: 12, ThreadCount: 3, CPUPercent: 0.5}, model.StatusRunning},
		{"quiet", model.ProcessRecord{PID: 12, ThreadCount: 3}, model.StatusSleeping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveStatus(&tt.rec))
		})
	}
}

func TestCollectorSnapshot(t *testing.T) {
	busy := rec(10, 4, 1, 100)
	busy.ResidentBytes = 250
	busy.ReadBytes = 1000
	busy.WriteBytes = 500
	busy.ThreadCount = 3
	busy2 := busy
	busy2.KernelTime = 400
	busy2.ReadBytes = 3000
	busy2.WriteBytes = 1500

	procs := &fakeProcs{ticks: [][]model.ProcessRecord{
		{rec(0, 0, 1, 1000), busy},
		{rec(0, 0, 1, 1300), busy2},
	}}
	system := &fakeSystem{rx: 100, tx: 50, battery: proc.Battery{Present: true, Percent: 80, Charging: true}}
	m := metrics.New()
	f := newFakeEnricher()
	c := NewCollector(procs, system, NewCache(f, m), m)

	now := time.Unix(100, 0)
	c.now = func() time.Time { return now }

	first := c.Collect()
	assert.Zero(t, first.NetRxRate)
	assert.Zero(t, first.DiskReadRate)
	assert.Equal(t, 2, first.TasksTotal)
	assert.Zero(t, first.TasksRunning)

	now = now.Add(2 * time.Second)
	system.rx, system.tx = 300, 150
	snap := c.Collect()

	require.Len(t, snap.Processes, 2)
	byID := byPID(snap.Processes)
	assert.Equal(t, model.StatusIdle, byID[0].Status)
	assert.Equal(t, model.StatusRunning, byID[10].Status)
	assert.InDelta(t, 50.0, byID[10].CPUPercent, 1e-9)
	assert.InDelta(t, 25.0, byID[10].MemPercent, 1e-9)

	assert.Equal(t, 1, snap.TasksRunning)
	assert.Equal(t, 4, snap.ThreadsTotal)
	assert.Equal(t, uint64(100), snap.NetRxRate)
	assert.Equal(t, uint64(50), snap.NetTxRate)
	assert.Equal(t, uint64(1000), snap.DiskReadRate)
	assert.Equal(t, uint64(500), snap.DiskWriteRate)

	assert.Equal(t, uint64(1000), snap.MemTotal)
	assert.InDelta(t, 40.0, snap.MemPercent(), 1e-9)
	assert.InDelta(t, 15.0, snap.AverageCPU(), 1e-9)
	assert.Equal(t, "box", snap.Hostname)
	assert.True(t, snap.HasBattery)
	assert.True(t, snap.BatteryCharging)

	assert.Equal(t, 1, testutil.CollectAndCount(m.RefreshDuration))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Processes))
}

func TestCollectorProbeFailureYieldsEmptyTable(t *testing.T) {
	c := NewCollector(&fakeProcs{err: errors.New("boom")}, &fakeSystem{}, NewCache(newFakeEnricher(), nil), nil)
	snap := c.Collect()
	assert.NotNil(t, snap.Processes)
	assert.Empty(t, snap.Processes)
	assert.Zero(t, snap.TasksTotal)
}

func TestEngineRunStops(t *testing.T) {
	procs := &fakeProcs{ticks: [][]model.ProcessRecord{{rec(0, 0, 1, 0), rec(10, 4, 1, 0)}}}
	e := NewEngineWith(procs, &fakeSystem{}, newFakeEnricher(), nil)

	var seen int
	err := e.Run(context.Background(), time.Millisecond, func(s *model.SystemSnapshot) bool {
		seen++
		return seen < 3
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, seen)
	assert.Equal(t, 2, e.Cache.Len())
}

func TestEngineRunHonoursContext(t *testing.T) {
	e := NewEngineWith(&fakeProcs{ticks: [][]model.ProcessRecord{{}}}, &fakeSystem{}, newFakeEnricher(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.Run(ctx, time.Hour, func(*model.SystemSnapshot) bool { return true })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineDetails(t *testing.T) {
	e := NewEngineWith(&fakeProcs{ticks: [][]model.ProcessRecord{{}}}, &fakeSystem{}, newFakeEnricher(), nil)
	d, err := e.Details(42)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), d.IOReadBytes)
	r, w, err := e.IOCounters(42)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r)
	assert.Equal(t, uint64(2), w)
}
