//go:build windows

package proc

import (
	"fmt"
	"syscall"
	"unsafe"

	gowindows "github.com/elastic/go-windows"
	"golang.org/x/sys/windows"
)

func processSID(pid uint32) (string, error) {
	h, err := openProcess(pid)
	if err != nil {
		return "", fmt.Errorf("failed to open PID %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	var token windows.Token
	if err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token); err != nil {
		return "", fmt.Errorf("failed to open token of PID %d: %w", pid, err)
	}
	defer token.Close()

	user, err := token.GetTokenUser()
	if err != nil {
		return "", fmt.Errorf("failed to read token user of PID %d: %w", pid, err)
	}
	return user.User.Sid.String(), nil
}

func lookupAccount(sid string) (string, error) {
	s, err := windows.StringToSid(sid)
	if err != nil {
		return "", err
	}
	account, _, _, err := s.LookupAccount("")
	return account, err
}

// Static resolves elevation, architecture and, when withPath is set, the
// full image path.
func (i *Inspector) Static(pid uint32, withPath bool) (StaticInfo, error) {
	i.metrics.StaticLookup()
	h, err := openProcess(pid)
	if err != nil {
		return StaticInfo{}, fmt.Errorf("failed to open PID %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	var info StaticInfo

	var token windows.Token
	if windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token) == nil {
		info.Elevated = token.IsElevated()
		token.Close()
	}

	var processMachine, nativeMachine uint16
	if windows.IsWow64Process2(h, &processMachine, &nativeMachine) == nil {
		info.Arch = archFromMachine(processMachine)
	}

	if withPath {
		info.ExePath = imagePath(h)
	}
	return info, nil
}

func imagePath(h windows.Handle) string {
	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err == nil {
		return windows.UTF16ToString(buf[:size])
	}
	// NT device path, e.g. \Device\HarddiskVolume3\Windows\cmd.exe
	if p, err := gowindows.GetProcessImageFileName(syscall.Handle(h)); err == nil {
		return p
	}
	return ""
}

const (
	processPowerThrottling          = 4
	powerThrottlingCurrentVersion   = 1
	powerThrottlingExecutionSpeed   = 0x1
	processPowerThrottlingStateSize = 12
)

type powerThrottlingState struct {
	Version     uint32
	ControlMask uint32
	StateMask   uint32
}

// Efficiency reports whether EcoQoS execution-speed throttling is on.
func (i *Inspector) Efficiency(pid uint32) (bool, error) {
	i.metrics.EfficiencyLookup()
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return false, fmt.Errorf("failed to open PID %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	st := powerThrottlingState{Version: powerThrottlingCurrentVersion}
	if err := callBool(procGetProcessInformation,
		uintptr(h), processPowerThrottling,
		uintptr(unsafe.Pointer(&st)), processPowerThrottlingStateSize); err != nil {
		return false, fmt.Errorf("failed to query throttling of PID %d: %w", pid, err)
	}
	return st.ControlMask&powerThrottlingExecutionSpeed != 0 &&
		st.StateMask&powerThrottlingExecutionSpeed != 0, nil
}

// Details reads I/O counters, affinity and memory counters.
func (i *Inspector) Details(pid uint32) (Details, error) {
	h, err := openProcess(pid)
	if err != nil {
		return Details{}, fmt.Errorf("failed to open PID %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	var d Details
	var io windows.IO_COUNTERS
	if callBool(procGetProcessIoCounters, uintptr(h), uintptr(unsafe.Pointer(&io))) == nil {
		d.IOReadBytes = io.ReadTransferCount
		d.IOWriteBytes = io.WriteTransferCount
		d.IOReadOps = io.ReadOperationCount
		d.IOWriteOps = io.WriteOperationCount
	}

	var mask, system uintptr
	if callBool(procGetProcessAffinityMask, uintptr(h),
		uintptr(unsafe.Pointer(&mask)), uintptr(unsafe.Pointer(&system))) == nil {
		d.AffinityMask = uint64(mask)
		d.SystemMask = uint64(system)
	}

	if mem, err := gowindows.GetProcessMemoryInfo(syscall.Handle(h)); err == nil {
		d.PeakWorkingSet = uint64(mem.PeakWorkingSetSize)
		d.PrivateUsage = uint64(mem.PrivateUsage)
		d.PageFaults = mem.PageFaultCount
	}
	return d, nil
}

// IOCounters is the cheap subset of Details refreshed every tick while the
// process info dialog is open.
func (i *Inspector) IOCounters(pid uint32) (read, write uint64, err error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open PID %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	var io windows.IO_COUNTERS
	if err := callBool(procGetProcessIoCounters, uintptr(h), uintptr(unsafe.Pointer(&io))); err != nil {
		return 0, 0, fmt.Errorf("failed to read I/O counters of PID %d: %w", pid, err)
	}
	return io.ReadTransferCount, io.WriteTransferCount, nil
}
