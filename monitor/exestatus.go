package monitor

import (
	"os"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/faratech/htop-win/metrics"
)

const (
	exeStatusTTL        = 10 * time.Second
	exeStatusMaxEntries = 1000
)

type exeKey struct {
	path  string
	start int64
}

type exeStatus struct {
	updated   bool
	deleted   bool
	checkedAt time.Time
}

// ExeStatusCache remembers whether a process image was replaced or removed
// after the process started. It is advisory: on overflow it is dropped
// wholesale rather than evicting individual entries.
type ExeStatusCache struct {
	entries *xsync.Map[exeKey, exeStatus]
	stat    func(string) (os.FileInfo, error)
	now     func() time.Time
	metrics *metrics.Metrics
}

func NewExeStatusCache(m *metrics.Metrics) *ExeStatusCache {
	return &ExeStatusCache{
		entries: xsync.NewMap[exeKey, exeStatus](),
		stat:    os.Stat,
		now:     time.Now,
		metrics: m,
	}
}

// Len returns the number of cached entries.
func (c *ExeStatusCache) Len() int {
	return c.entries.Size()
}

// Check reports whether the file at path is newer than start (unix seconds)
// or missing. NT device paths cannot be stat'ed and are never flagged.
func (c *ExeStatusCache) Check(path string, start int64) (updated, deleted bool) {
	if path == "" || strings.HasPrefix(path, `\Device\`) {
		return false, false
	}
	key := exeKey{path: path, start: start}
	now := c.now()
	if st, ok := c.entries.Load(key); ok && now.Sub(st.checkedAt) < exeStatusTTL {
		return st.updated, st.deleted
	}

	c.metrics.ExeStatusCheck()
	st := exeStatus{checkedAt: now}
	if fi, err := c.stat(path); err != nil {
		st.deleted = true
	} else {
		st.updated = start > 0 && fi.ModTime().Unix() > start
	}

	if c.entries.Size() >= exeStatusMaxEntries {
		c.entries.Clear()
	}
	c.entries.Store(key, st)
	return st.updated, st.deleted
}
