package model

import (
	"strings"
	"time"
)

// Status is the single-letter process state shown in the S column.
type Status byte

const (
	StatusRunning  Status = 'R'
	StatusSleeping Status = 'S'
	StatusIdle     Status = 'I'
	StatusZombie   Status = 'Z'
	StatusStopped  Status = 'T'
	StatusDiskWait Status = 'D'
)

// Arch classifies the machine type a process image was built for.
type Arch uint8

const (
	ArchNative Arch = iota
	ArchX86
	ArchX64 // x64 image emulated on ARM64
	ArchARM64
)

func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchX64:
		return "x64"
	case ArchARM64:
		return "ARM"
	default:
		return ""
	}
}

// Well-known process IDs.
const (
	IdlePID   uint32 = 0
	SystemPID uint32 = 4
)

// ProcessRecord holds identity, sampled metrics and lazily enriched
// attributes of one process.
type ProcessRecord struct {
	PID       uint32
	ParentPID uint32

	// CreateTime is in 100-ns ticks since 1601 and witnesses PID reuse.
	CreateTime uint64
	StartTime  int64 // unix seconds, derived from CreateTime

	KernelTime uint64 // 100-ns
	UserTime   uint64 // 100-ns

	ThreadCount  uint32
	HandleCount  uint32
	BasePriority int32
	Priority     int32
	Nice         int32

	WorkingSet    uint64
	VirtualBytes  uint64 // pagefile usage (committed), Task Manager semantics
	ResidentBytes uint64
	SharedBytes   uint64
	PrivateBytes  uint64
	ReadBytes     uint64
	WriteBytes    uint64

	Name    string
	Command string
	ExePath string
	User    string

	NameLower    string
	CommandLower string
	UserLower    string

	CPUPercent float64
	MemPercent float64
	Status     Status

	IsElevated     bool
	Arch           Arch
	EfficiencyMode bool
	IOReadBytes    uint64
	IOWriteBytes   uint64
	ExeUpdated     bool
	ExeDeleted     bool

	MatchesSearch bool

	TreeDepth   int
	TreePrefix  string
	HasChildren bool
	IsCollapsed bool
}

// SetName updates Name and its lowered copy together.
func (p *ProcessRecord) SetName(name string) {
	p.Name = name
	p.NameLower = strings.ToLower(name)
}

// SetCommand updates Command and its lowered copy together.
func (p *ProcessRecord) SetCommand(cmd string) {
	p.Command = cmd
	p.CommandLower = strings.ToLower(cmd)
}

// SetUser updates User and its lowered copy together.
func (p *ProcessRecord) SetUser(user string) {
	p.User = user
	p.UserLower = strings.ToLower(user)
}

// CPUTime returns the accumulated kernel plus user time.
func (p *ProcessRecord) CPUTime() time.Duration {
	return time.Duration(p.KernelTime+p.UserTime) * 100
}

// IsKernel reports whether the process belongs to the kernel class: owned by
// SYSTEM or an NT AUTHORITY account, or one of the two kernel PIDs.
func (p *ProcessRecord) IsKernel() bool {
	if p.PID == IdlePID || p.PID == SystemPID {
		return true
	}
	return p.UserLower == "system" || strings.HasPrefix(p.UserLower, "nt authority")
}

// Basename returns the last path element of the command.
func (p *ProcessRecord) Basename() string {
	cmd := p.Command
	if i := strings.LastIndexAny(cmd, `\/`); i >= 0 {
		return cmd[i+1:]
	}
	return cmd
}

// windowsToUnixEpoch is the number of 100-ns ticks between 1601-01-01 and
// 1970-01-01.
const windowsToUnixEpoch = 116444736000000000

// FiletimeToUnix converts 100-ns ticks since 1601 to unix seconds. Zero and
// pre-1970 values map to 0.
func FiletimeToUnix(ticks uint64) int64 {
	if ticks <= windowsToUnixEpoch {
		return 0
	}
	return int64((ticks - windowsToUnixEpoch) / 10_000_000)
}

// CoreBreakdown splits one core's busy time into user and system shares.
type CoreBreakdown struct {
	User   float64
	System float64
	Idle   float64
}

// SystemSnapshot is the aggregated output of one tick.
type SystemSnapshot struct {
	Processes []ProcessRecord

	CoreUsage     []float64
	CoreBreakdown []CoreBreakdown

	MemTotal  uint64
	MemUsed   uint64
	MemCached uint64
	SwapTotal uint64
	SwapUsed  uint64

	NetRxBytes uint64
	NetTxBytes uint64
	NetRxRate  uint64 // bytes per second
	NetTxRate  uint64

	DiskReadBytes  uint64
	DiskWriteBytes uint64
	DiskReadRate   uint64
	DiskWriteRate  uint64

	Uptime   uint64 // seconds
	Hostname string

	HasBattery      bool
	BatteryPercent  float64
	BatteryCharging bool

	TasksTotal   int
	TasksRunning int
	ThreadsTotal int

	TakenAt time.Time
}

// MemPercent returns used memory as a percentage of total.
func (s *SystemSnapshot) MemPercent() float64 {
	if s.MemTotal == 0 {
		return 0
	}
	return float64(s.MemUsed) * 100 / float64(s.MemTotal)
}

// SwapPercent returns used swap as a percentage of total.
func (s *SystemSnapshot) SwapPercent() float64 {
	if s.SwapTotal == 0 {
		return 0
	}
	return float64(s.SwapUsed) * 100 / float64(s.SwapTotal)
}

// AverageCPU returns the mean usage across cores.
func (s *SystemSnapshot) AverageCPU() float64 {
	if len(s.CoreUsage) == 0 {
		return 0
	}
	var sum float64
	for _, u := range s.CoreUsage {
		sum += u
	}
	return sum / float64(len(s.CoreUsage))
}
