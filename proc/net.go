package proc

import (
	"strings"

	"github.com/shirou/gopsutil/v3/net"
)

// ReadNetTotals sums received and sent bytes over every non-loopback
// interface.
func ReadNetTotals() (rx, tx uint64, err error) {
	counters, err := net.IOCounters(true)
	if err != nil {
		return 0, 0, err
	}
	for _, c := range counters {
		if isLoopback(c.Name) {
			continue
		}
		rx += c.BytesRecv
		tx += c.BytesSent
	}
	return rx, tx, nil
}

func isLoopback(name string) bool {
	n := strings.ToLower(name)
	return n == "lo" || strings.HasPrefix(n, "loopback")
}
