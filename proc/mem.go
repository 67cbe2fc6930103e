package proc

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

// Memory holds physical memory and page file usage in bytes.
type Memory struct {
	Total, Used, Cached uint64
	SwapTotal, SwapUsed uint64
}

func ReadMemory() (Memory, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Memory{}, fmt.Errorf("failed to read memory status: %w", err)
	}
	out := Memory{
		Total:  vm.Total,
		Used:   vm.Used,
		Cached: vm.Cached,
	}
	if sw, err := mem.SwapMemory(); err == nil {
		out.SwapTotal = sw.Total
		out.SwapUsed = sw.Used
	}
	return out, nil
}
