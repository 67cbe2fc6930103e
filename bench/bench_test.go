package bench

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/proc"
)

type fakeRunner struct {
	calls    int
	interval time.Duration
	err      error
}

func (f *fakeRunner) snapshot() *model.SystemSnapshot {
	procs := make([]model.ProcessRecord, 5)
	for i := range procs {
		procs[i] = model.ProcessRecord{PID: uint32(100 + i), Name: "proc.exe"}
	}
	return &model.SystemSnapshot{
		Processes: procs,
		CoreUsage: []float64{10, 20},
		MemTotal:  8 << 30,
		TakenAt:   time.Now().Add(-2 * time.Millisecond),
	}
}

func (f *fakeRunner) Refresh() *model.SystemSnapshot { return f.snapshot() }
func (f *fakeRunner) EnrichWindow([]model.ProcessRecord, bool) {}
func (f *fakeRunner) Details(uint32) (proc.Details, error) { return proc.Details{}, nil }
func (f *fakeRunner) IOCounters(uint32) (uint64, uint64, error) { return 0, 0, nil }

func (f *fakeRunner) Run(ctx context.Context, interval time.Duration, fn func(*model.SystemSnapshot) bool) error {
	f.interval = interval
	if f.err != nil {
		return f.err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.calls++
		if !fn(f.snapshot()) {
			return nil
		}
	}
}

func TestRunStopsAfterIterations(t *testing.T) {
	src := &fakeRunner{}
	cpu := time.Duration(0)
	rep, err := Run(context.Background(), src, Options{
		Iterations: 5,
		CPUTime: func() (time.Duration, error) {
			cpu += 3 * time.Millisecond
			return cpu, nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, src.calls)
	assert.Equal(t, DefaultInterval, src.interval)
	assert.Equal(t, 5, rep.Iterations)
	assert.Equal(t, 5, rep.Processes)
	assert.Equal(t, 5, rep.Refresh.N)
	assert.Equal(t, 5, rep.Draw.N)
	assert.GreaterOrEqual(t, rep.Refresh.Min, 2*time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, rep.CPU)
	assert.Positive(t, rep.Wall)
}

func TestRunDefaultsIterations(t *testing.T) {
	src := &fakeRunner{}
	rep, err := Run(context.Background(), src, Options{
		CPUTime: func() (time.Duration, error) { return 0, errors.New("nope") },
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultIterations, rep.Iterations)
	assert.Zero(t, rep.CPU)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := Run(ctx, &fakeRunner{}, Options{
		CPUTime: func() (time.Duration, error) { return 0, nil },
	})
	require.NoError(t, err)
	assert.Zero(t, rep.Iterations)
}

func TestRunPropagatesFailure(t *testing.T) {
	_, err := Run(context.Background(), &fakeRunner{err: errors.New("boom")}, Options{
		CPUTime: func() (time.Duration, error) { return 0, nil },
	})
	assert.ErrorContains(t, err, "boom")
}

func TestTiming(t *testing.T) {
	var tm Timing
	assert.Zero(t, tm.Avg())
	tm.add(4 * time.Millisecond)
	tm.add(2 * time.Millisecond)
	tm.add(6 * time.Millisecond)
	assert.Equal(t, 2*time.Millisecond, tm.Min)
	assert.Equal(t, 6*time.Millisecond, tm.Max)
	assert.Equal(t, 4*time.Millisecond, tm.Avg())
}

func TestReportPrint(t *testing.T) {
	rep := &Report{Iterations: 20, Processes: 312, Wall: 2 * time.Second, CPU: 500 * time.Millisecond}
	rep.Refresh.add(5 * time.Millisecond)
	assert.InDelta(t, 25.0, rep.CPUPercent(), 0.001)

	var buf bytes.Buffer
	require.NoError(t, rep.Print(&buf))
	out := buf.String()
	assert.Contains(t, out, "BENCHMARK RESULTS")
	assert.Contains(t, out, "312")
	assert.Contains(t, out, "REFRESH")
	assert.NotContains(t, out, "DRAW")
	assert.Contains(t, out, "25.0%")
}
