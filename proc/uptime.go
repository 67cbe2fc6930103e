package proc

import (
	"os"
	"sync"

	"github.com/shirou/gopsutil/v3/host"
)

func ReadUptime() uint64 {
	up, err := host.Uptime()
	if err != nil {
		return 0
	}
	return up
}

var (
	hostnameOnce sync.Once
	hostname     string
)

// Hostname is resolved on first use and cached for the process lifetime.
func Hostname() string {
	hostnameOnce.Do(func() {
		if info, err := host.Info(); err == nil && info.Hostname != "" {
			hostname = info.Hostname
			return
		}
		hostname, _ = os.Hostname()
	})
	return hostname
}
