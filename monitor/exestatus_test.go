package monitor

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/faratech/htop-win/metrics"
)

func newTestExeCache(m *metrics.Metrics, files map[string]time.Time) (*ExeStatusCache, *time.Time, *int) {
	c := NewExeStatusCache(m)
	now := time.Unix(10_000, 0)
	calls := 0
	c.now = func() time.Time { return now }
	c.stat = func(path string) (os.FileInfo, error) {
		calls++
		mod, ok := files[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return fakeFile{mod: mod}, nil
	}
	return c, &now, &calls
}

func TestExeStatusFlags(t *testing.T) {
	files := map[string]time.Time{
		`C:\old.exe`: time.Unix(500, 0),
		`C:\new.exe`: time.Unix(2000, 0),
	}
	c, _, _ := newTestExeCache(nil, files)

	updated, deleted := c.Check(`C:\old.exe`, 1000)
	assert.False(t, updated)
	assert.False(t, deleted)

	updated, deleted = c.Check(`C:\new.exe`, 1000)
	assert.True(t, updated)
	assert.False(t, deleted)

	updated, deleted = c.Check(`C:\gone.exe`, 1000)
	assert.False(t, updated)
	assert.True(t, deleted)
}

func TestExeStatusSkipsDevicePaths(t *testing.T) {
	c, _, calls := newTestExeCache(nil, nil)
	updated, deleted := c.Check(`\Device\HarddiskVolume3\Windows\x.exe`, 1)
	assert.False(t, updated)
	assert.False(t, deleted)
	assert.Zero(t, *calls)
	assert.Zero(t, c.Len())
}

func TestExeStatusTTL(t *testing.T) {
	m := metrics.New()
	c, now, calls := newTestExeCache(m, map[string]time.Time{`C:\a.exe`: time.Unix(1, 0)})

	c.Check(`C:\a.exe`, 100)
	c.Check(`C:\a.exe`, 100)
	assert.Equal(t, 1, *calls)

	*now = now.Add(exeStatusTTL)
	c.Check(`C:\a.exe`, 100)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExeStatusChecks))
}

func TestExeStatusBounded(t *testing.T) {
	c, _, _ := newTestExeCache(nil, nil)
	for i := 0; i < 2500; i++ {
		c.Check(fmt.Sprintf(`C:\bin\%d.exe`, i), 1)
		if !assert.LessOrEqual(t, c.Len(), exeStatusMaxEntries) {
			return
		}
	}
}

func TestExeStatusKeyIncludesStart(t *testing.T) {
	c, _, calls := newTestExeCache(nil, map[string]time.Time{`C:\a.exe`: time.Unix(150, 0)})

	updated, _ := c.Check(`C:\a.exe`, 100)
	assert.True(t, updated)
	updated, _ = c.Check(`C:\a.exe`, 200)
	assert.False(t, updated)
	assert.Equal(t, 2, *calls)
}
