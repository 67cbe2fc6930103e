package proc

import (
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/faratech/htop-win/metrics"
	"github.com/faratech/htop-win/model"
)

// StaticInfo are attributes fixed for the lifetime of a process.
type StaticInfo struct {
	Elevated bool
	Arch     model.Arch
	ExePath  string
}

// Details are fetched only while a dialog needs them.
type Details struct {
	IOReadBytes    uint64
	IOWriteBytes   uint64
	IOReadOps      uint64
	IOWriteOps     uint64
	AffinityMask   uint64
	SystemMask     uint64
	PeakWorkingSet uint64
	PrivateUsage   uint64
	PageFaults     uint32
}

// Inspector performs the per-process queries that need a process handle.
// Account names are memoised per SID for the process lifetime.
type Inspector struct {
	accounts *xsync.Map[string, string]
	metrics  *metrics.Metrics
}

func NewInspector(m *metrics.Metrics) *Inspector {
	return &Inspector{
		accounts: xsync.NewMap[string, string](),
		metrics:  m,
	}
}

const systemAccount = "SYSTEM"

var wellKnownSIDs = map[string]string{
	"S-1-5-18": systemAccount,
	"S-1-5-19": "LOCAL SERVICE",
	"S-1-5-20": "NETWORK SERVICE",
}

// Owner returns the account name of the process token. The two kernel PIDs
// resolve without a syscall.
func (i *Inspector) Owner(pid uint32) (string, error) {
	if pid == model.IdlePID || pid == model.SystemPID {
		return systemAccount, nil
	}
	i.metrics.OwnerLookup()
	sid, err := processSID(pid)
	if err != nil {
		return "", err
	}
	return i.accountName(sid, lookupAccount), nil
}

func (i *Inspector) accountName(sid string, lookup func(string) (string, error)) string {
	if name, ok := wellKnownSIDs[sid]; ok {
		return name
	}
	if name, ok := i.accounts.Load(sid); ok {
		return name
	}
	name, err := lookup(sid)
	if err != nil || name == "" {
		name = sid
	}
	i.accounts.Store(sid, name)
	return name
}

// Machine types reported by IsWow64Process2.
const (
	machineUnknown = 0
	machineI386    = 0x014c
	machineAMD64   = 0x8664
	machineARM64   = 0xAA64
)

func archFromMachine(processMachine uint16) model.Arch {
	switch processMachine {
	case machineI386:
		return model.ArchX86
	case machineAMD64:
		return model.ArchX64
	case machineARM64:
		return model.ArchARM64
	default:
		return model.ArchNative
	}
}
