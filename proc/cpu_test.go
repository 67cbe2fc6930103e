package proc

import (
	"testing"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUSamplerFirstSampleIsZero(t *testing.T) {
	samples := [][]cpu.TimesStat{
		{{CPU: "0", User: 10, System: 5, Idle: 85}, {CPU: "1", User: 0, System: 0, Idle: 100}},
		{{CPU: "0", User: 40, System: 15, Idle: 145}, {CPU: "1", User: 0, System: 0, Idle: 200}},
	}
	n := 0
	s := &CPUSampler{times: func(bool) ([]cpu.TimesStat, error) {
		out := samples[n]
		n++
		return out, nil
	}}

	usage, split, err := s.Sample()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, usage)
	assert.Len(t, split, 2)

	usage, split, err = s.Sample()
	require.NoError(t, err)
	// core 0: 30 user + 10 system over 100 total
	assert.InDelta(t, 40.0, usage[0], 1e-9)
	assert.InDelta(t, 30.0, split[0].User, 1e-9)
	assert.InDelta(t, 10.0, split[0].System, 1e-9)
	assert.InDelta(t, 60.0, split[0].Idle, 1e-9)
	assert.InDelta(t, 0.0, usage[1], 1e-9)
}

func TestCoreDeltaNoElapsedTime(t *testing.T) {
	u, b := coreDelta(cpu.TimesStat{User: 1}, cpu.TimesStat{User: 1})
	assert.Zero(t, u)
	assert.Zero(t, b)
}
