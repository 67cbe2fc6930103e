package monitor

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/proc"
)

type fakeEnricher struct {
	mu          sync.Mutex
	owners      map[uint32]string
	ownerCalls  map[uint32]int
	staticCalls map[uint32]int
	pathCalls   map[uint32]int
	effCalls    map[uint32]int
	static      proc.StaticInfo
	efficient   bool
}

func newFakeEnricher() *fakeEnricher {
	return &fakeEnricher{
		owners:      map[uint32]string{},
		ownerCalls:  map[uint32]int{},
		staticCalls: map[uint32]int{},
		pathCalls:   map[uint32]int{},
		effCalls:    map[uint32]int{},
	}
}

func (f *fakeEnricher) Owner(pid uint32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownerCalls[pid]++
	if name, ok := f.owners[pid]; ok {
		return name, nil
	}
	return "", errors.New("access denied")
}

func (f *fakeEnricher) Static(pid uint32, withPath bool) (proc.StaticInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staticCalls[pid]++
	info := f.static
	if withPath {
		f.pathCalls[pid]++
	} else {
		info.ExePath = ""
	}
	return info, nil
}

func (f *fakeEnricher) Efficiency(pid uint32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.effCalls[pid]++
	return f.efficient, nil
}

func (f *fakeEnricher) Details(pid uint32) (proc.Details, error) {
	return proc.Details{IOReadBytes: 1, IOWriteBytes: 2}, nil
}

func (f *fakeEnricher) IOCounters(pid uint32) (uint64, uint64, error) {
	return 1, 2, nil
}

type fakeProcs struct {
	ticks [][]model.ProcessRecord
	n     int
	err   error
}

func (f *fakeProcs) Processes() ([]model.ProcessRecord, error) {
	if f.err != nil {
		return []model.ProcessRecord{}, f.err
	}
	t := f.ticks[min(f.n, len(f.ticks)-1)]
	f.n++
	out := make([]model.ProcessRecord, len(t))
	copy(out, t)
	return out, nil
}

type fakeSystem struct {
	rx, tx  uint64
	battery proc.Battery
}

func (f *fakeSystem) CPU() ([]float64, []model.CoreBreakdown, error) {
	return []float64{10, 20}, []model.CoreBreakdown{{User: 5, System: 5}, {User: 10, System: 10}}, nil
}

func (f *fakeSystem) Memory() (proc.Memory, error) {
	return proc.Memory{Total: 1000, Used: 400, SwapTotal: 100, SwapUsed: 10}, nil
}

func (f *fakeSystem) Net() (uint64, uint64, error) { return f.rx, f.tx, nil }
func (f *fakeSystem) Uptime() uint64 { return 3600 }
func (f *fakeSystem) Hostname() string { return "box" }
func (f *fakeSystem) Battery() proc.Battery { return f.battery }

func rec(pid, ppid uint32, create, cpu uint64) model.ProcessRecord {
	r := model.ProcessRecord{PID: pid, ParentPID: ppid, CreateTime: create, KernelTime: cpu, ThreadCount: 1}
	r.SetName("p.exe")
	r.SetCommand("p.exe")
	return r
}

type fakeFile struct {
	mod time.Time
}

func (f fakeFile) Name() string       { return "p.exe" }
func (f fakeFile) Size() int64        { return 0 }
func (f fakeFile) Mode() os.FileMode  { return 0o644 }
func (f fakeFile) ModTime() time.Time { return f.mod }
func (f fakeFile) IsDir() bool        { return false }
func (f fakeFile) Sys() any           { return nil }
