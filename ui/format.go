package ui

import (
	"fmt"
	"time"
)

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
	tib = 1 << 40
)

// FormatBytes renders a memory size the way htop's VIRT/RES columns do.
func FormatBytes(b uint64) string {
	switch {
	case b >= tib:
		return fmt.Sprintf("%.1fT", float64(b)/tib)
	case b >= gib:
		return fmt.Sprintf("%.1fG", float64(b)/gib)
	case b >= mib:
		return fmt.Sprintf("%.0fM", float64(b)/mib)
	case b >= kib:
		return fmt.Sprintf("%.0fK", float64(b)/kib)
	default:
		return fmt.Sprintf("%dB", b)
	}
}

// FormatMeterBytes is the more precise form used by the memory meters.
func FormatMeterBytes(b uint64) string {
	switch {
	case b >= gib:
		return fmt.Sprintf("%.2fG", float64(b)/gib)
	case b >= mib:
		return fmt.Sprintf("%.0fM", float64(b)/mib)
	default:
		return fmt.Sprintf("%.0fK", float64(b)/kib)
	}
}

// FormatRate renders a per-second byte rate.
func FormatRate(bps uint64) string {
	switch {
	case bps >= gib:
		return fmt.Sprintf("%.1fG/s", float64(bps)/gib)
	case bps >= mib:
		return fmt.Sprintf("%.1fM/s", float64(bps)/mib)
	case bps >= kib:
		return fmt.Sprintf("%.1fK/s", float64(bps)/kib)
	default:
		return fmt.Sprintf("%dB/s", bps)
	}
}

// FormatTime renders accumulated CPU time for TIME+: minutes with
// centiseconds below an hour, then hours, days and years.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	centis := int64(d%time.Second) / int64(10*time.Millisecond)
	mins, hours, days := secs/60, secs/3600, secs/86400

	switch {
	case mins < 60:
		return fmt.Sprintf("%2d:%02d.%02d", mins, secs%60, centis)
	case hours < 24:
		return fmt.Sprintf("%2dh%02d:%02d", hours, mins%60, secs%60)
	case days < 365:
		return fmt.Sprintf("%3dd%02dh", days, hours%24)
	default:
		return fmt.Sprintf("%3dy%03dd", days/365, days%365)
	}
}

// FormatUptime renders seconds as HH:MM:SS with a day prefix when needed.
func FormatUptime(secs uint64) string {
	days := secs / 86400
	clock := fmt.Sprintf("%02d:%02d:%02d", secs%86400/3600, secs%3600/60, secs%60)
	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}

// FormatStart renders how long ago a process started.
func FormatStart(start, now int64) string {
	if start <= 0 || start > now {
		return "-"
	}
	e := now - start
	switch {
	case e < 60:
		return fmt.Sprintf("%ds", e)
	case e < 3600:
		return fmt.Sprintf("%dm", e/60)
	case e < 86400:
		return fmt.Sprintf("%dh%dm", e/3600, e%3600/60)
	case e/86400 > 99:
		return fmt.Sprintf("%dd", e/86400)
	default:
		return fmt.Sprintf("%dd%dh", e/86400, e%86400/3600)
	}
}
