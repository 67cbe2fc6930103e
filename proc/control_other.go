//go:build !windows

package proc

func terminate(uint32, uint32) error { return ErrUnsupported }

func setPriorityClass(uint32, uint32) error { return ErrUnsupported }

func setAffinity(uint32, uint64) error { return ErrUnsupported }
