//go:build !windows

package proc

func EnableDebugPrivilege() error { return ErrUnsupported }

func EnableSelfEfficiencyMode() error { return ErrUnsupported }
