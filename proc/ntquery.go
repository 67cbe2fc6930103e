package proc

import (
	"encoding/binary"
	"errors"

	"github.com/faratech/htop-win/model"
)

var (
	ErrProbeFailed = errors.New("process query failed")
	ErrUnsupported = errors.New("not supported on this platform")
)

// Query buffer sizing for SystemProcessInformation.
const (
	initialBufferSize = 1 << 20
	bufferSlack       = 64 << 10
	maxQueryAttempts  = 8
)

// Offsets into SYSTEM_PROCESS_INFORMATION on 64-bit Windows.
const (
	offNextEntry        = 0x00
	offThreadCount      = 0x04
	offWorkingSetPriv   = 0x08
	offCreateTime       = 0x20
	offUserTime         = 0x28
	offKernelTime       = 0x30
	offImageNameLength  = 0x38
	offImageNameBuffer  = 0x40
	offBasePriority     = 0x48
	offUniqueProcessID  = 0x50
	offParentProcessID  = 0x58
	offHandleCount      = 0x60
	offWorkingSetSize   = 0x90
	offPagefileUsage    = 0xB8
	offPrivatePageCount = 0xC8
	offReadTransfer     = 0xE8
	offWriteTransfer    = 0xF0

	processEntrySize = 0x100
)

const (
	idleProcessName   = "System Idle Process"
	systemProcessName = "System"
)

// ParseProcessBuffer walks a SystemProcessInformation result. base is the
// address of buf[0], needed to translate the image name pointers the kernel
// writes into the buffer. Truncated or malformed entries end the walk.
func ParseProcessBuffer(buf []byte, base uintptr) []model.ProcessRecord {
	le := binary.LittleEndian
	out := make([]model.ProcessRecord, 0, len(buf)/1024)

	off := 0
	for off >= 0 && off+processEntrySize <= len(buf) {
		e := buf[off : off+processEntrySize]

		var r model.ProcessRecord
		r.PID = uint32(le.Uint64(e[offUniqueProcessID:]))
		r.ParentPID = uint32(le.Uint64(e[offParentProcessID:]))
		r.ThreadCount = le.Uint32(e[offThreadCount:])
		r.HandleCount = le.Uint32(e[offHandleCount:])
		r.BasePriority = int32(le.Uint32(e[offBasePriority:]))
		r.CreateTime = le.Uint64(e[offCreateTime:])
		r.UserTime = le.Uint64(e[offUserTime:])
		r.KernelTime = le.Uint64(e[offKernelTime:])
		r.WorkingSet = le.Uint64(e[offWorkingSetSize:])
		r.ResidentBytes = r.WorkingSet
		r.SharedBytes = saturatingSub(r.WorkingSet, le.Uint64(e[offWorkingSetPriv:]))
		r.VirtualBytes = le.Uint64(e[offPagefileUsage:])
		r.PrivateBytes = le.Uint64(e[offPrivatePageCount:])
		r.ReadBytes = le.Uint64(e[offReadTransfer:])
		r.WriteBytes = le.Uint64(e[offWriteTransfer:])
		r.StartTime = model.FiletimeToUnix(r.CreateTime)

		class := model.PriorityClassFromBase(r.BasePriority)
		r.Priority = class.HtopPriority()
		r.Nice = class.Nice()

		name := imageName(buf, base, int(le.Uint16(e[offImageNameLength:])), le.Uint64(e[offImageNameBuffer:]))
		if name == "" {
			if r.PID == model.IdlePID {
				name = idleProcessName
			} else {
				name = systemProcessName
			}
		}
		r.SetName(name)
		r.SetCommand(name)

		out = append(out, r)

		next := int(le.Uint32(e[offNextEntry:]))
		if next == 0 {
			break
		}
		off += next
	}
	return out
}

func imageName(buf []byte, base uintptr, length int, ptr uint64) string {
	if length == 0 || ptr == 0 || ptr < uint64(base) {
		return ""
	}
	start := ptr - uint64(base)
	if start > uint64(len(buf)) || uint64(length) > uint64(len(buf))-start {
		return ""
	}
	return decodeUTF16(buf[start : start+uint64(length)])
}
