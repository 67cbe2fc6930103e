//go:build windows

package proc

import "golang.org/x/sys/windows"

func terminate(pid uint32, exitCode uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, pid)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return windows.TerminateProcess(h, exitCode)
}

func setPriorityClass(pid uint32, class uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_SET_INFORMATION, false, pid)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return callBool(procSetPriorityClass, uintptr(h), uintptr(class))
}

func setAffinity(pid uint32, mask uint64) error {
	h, err := windows.OpenProcess(windows.PROCESS_SET_INFORMATION, false, pid)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return callBool(procSetProcessAffinityMask, uintptr(h), uintptr(mask))
}
