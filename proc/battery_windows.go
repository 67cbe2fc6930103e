//go:build windows

package proc

import "unsafe"

func ReadBattery() Battery {
	var st systemPowerStatus
	if r, _, _ := procGetSystemPowerStatus.Call(uintptr(unsafe.Pointer(&st))); r == 0 {
		return Battery{}
	}
	return batteryFromStatus(st)
}
