//go:build windows

package proc

import "golang.org/x/sys/windows"

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetProcessIoCounters   = modkernel32.NewProc("GetProcessIoCounters")
	procGetProcessAffinityMask = modkernel32.NewProc("GetProcessAffinityMask")
	procSetProcessAffinityMask = modkernel32.NewProc("SetProcessAffinityMask")
	procSetPriorityClass       = modkernel32.NewProc("SetPriorityClass")
	procGetProcessInformation  = modkernel32.NewProc("GetProcessInformation")
	procSetProcessInformation  = modkernel32.NewProc("SetProcessInformation")
	procGetSystemPowerStatus   = modkernel32.NewProc("GetSystemPowerStatus")
)

// openProcess tries the full query right first and falls back to the
// limited one, which protected processes still grant.
func openProcess(pid uint32) (windows.Handle, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION, false, pid)
	if err == nil {
		return h, nil
	}
	return windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
}

// callBool invokes a BOOL-returning proc, turning FALSE into the last error.
func callBool(p *windows.LazyProc, args ...uintptr) error {
	r, _, err := p.Call(args...)
	if r == 0 {
		if err == nil || err == windows.ERROR_SUCCESS {
			return windows.ERROR_GEN_FAILURE
		}
		return err
	}
	return nil
}
