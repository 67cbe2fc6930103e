package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/faratech/htop-win/config"
	"github.com/faratech/htop-win/history"
)

type meterKind int

const (
	meterCPU meterKind = iota
	meterMem
	meterSwap
	meterTasks
	meterLoad
	meterNet
	meterDisk
	meterBattery
)

type meter struct {
	kind meterKind
	core int
}

// headerMeters splits the meters into the two header columns: the first
// half of the cores then Mem and Swp on the left, the remaining cores then
// the summary lines on the right.
func headerMeters(cores int) (left, right []meter) {
	half := (cores + 1) / 2
	for i := 0; i < half; i++ {
		left = append(left, meter{kind: meterCPU, core: i})
	}
	left = append(left, meter{kind: meterMem}, meter{kind: meterSwap})

	for i := half; i < cores; i++ {
		right = append(right, meter{kind: meterCPU, core: i})
	}
	right = append(right,
		meter{kind: meterTasks},
		meter{kind: meterLoad},
		meter{kind: meterNet},
		meter{kind: meterDisk},
		meter{kind: meterBattery},
	)
	return left, right
}

func (m Model) drawHeader(c *Canvas, area Rect) {
	if area.Empty() {
		return
	}
	m.bounds.Add(area, Element{Kind: ElemHeader})

	left, right := headerMeters(m.coreCount())
	lw := area.W / 2
	for i, mt := range left {
		m.drawMeter(c, mt, Rect{X: area.X, Y: area.Y + i, W: lw, H: 1})
	}
	for i, mt := range right {
		m.drawMeter(c, mt, Rect{X: area.X + lw, Y: area.Y + i, W: area.W - lw, H: 1})
	}
}

// drawMeter draws one meter row. Hidden meters draw nothing but keep their
// row and click area so a click can bring them back.
func (m Model) drawMeter(c *Canvas, mt meter, r Rect) {
	switch mt.kind {
	case meterCPU:
		m.bounds.Add(r, Element{Kind: ElemCPUMeter, Index: mt.core})
		m.drawCPUMeter(c, mt.core, r)
	case meterMem:
		m.bounds.Add(r, Element{Kind: ElemMemMeter})
		s := m.snap
		if s == nil {
			return
		}
		pct := s.MemPercent()
		m.drawMemoryMeter(c, r, "Mem", s.MemUsed, s.MemTotal, s.MemCached, pct,
			m.theme.memColor(pct), m.hist.Memory)
	case meterSwap:
		m.bounds.Add(r, Element{Kind: ElemSwapMeter})
		s := m.snap
		if s == nil {
			return
		}
		pct := s.SwapPercent()
		m.drawMemoryMeter(c, r, "Swp", s.SwapUsed, s.SwapTotal, 0, pct,
			m.theme.swapColor(pct), m.hist.Swap)
	case meterTasks:
		m.drawTasks(c, r)
	case meterLoad:
		m.drawLoad(c, r)
	case meterNet:
		m.drawNet(c, r)
	case meterDisk:
		m.drawDisk(c, r)
	case meterBattery:
		m.drawBattery(c, r)
	}
}

// span is a run of text in one style.
type span struct {
	text string
	st   Style
}

// drawSpans writes spans left to right, clipped to r.
func drawSpans(c *Canvas, r Rect, spans ...span) int {
	x := r.X
	for _, s := range spans {
		left := r.X + r.W - x
		if left <= 0 {
			break
		}
		x += c.Text(x, r.Y, s.text, s.st, left)
	}
	return x - r.X
}

func clampPct(v float64) float64 {
	return min(100, max(0, v))
}

func (m Model) drawCPUMeter(c *Canvas, core int, r Rect) {
	mode := m.cfg.CPUMeterMode
	if mode == config.MeterHidden || m.snap == nil || core >= len(m.snap.CoreUsage) {
		return
	}
	t := m.theme
	usage := clampPct(m.snap.CoreUsage[core])
	label := fmt.Sprintf("%2d", core)
	pct := fmt.Sprintf("%5.1f%%", usage)

	switch mode {
	case config.MeterText:
		drawSpans(c, r,
			span{label, t.label()},
			span{": ", t.text()},
			span{pct, Style{FG: t.cpuColor(usage)}},
		)

	case config.MeterGraph:
		gw := max(0, r.W-10)
		graph := history.Sparkline(m.hist.Core(core, 2*gw), gw)
		drawSpans(c, r,
			span{label + "[", t.label()},
			span{graph, Style{FG: t.cpuColor(usage)}},
			span{pct + "]", t.text()},
		)

	default:
		bw := max(0, r.W-11)
		user, system := int(usage), 0
		if core < len(m.snap.CoreBreakdown) {
			bd := m.snap.CoreBreakdown[core]
			user = int(clampPct(bd.User))
			system = int(clampPct(bd.System))
		}
		uw := min(bw, user*bw/100)
		sw := min(bw-uw, system*bw/100)
		drawSpans(c, r,
			span{label + "[", t.label()},
			span{strings.Repeat("|", uw), Style{FG: t.CPULow}},
			span{strings.Repeat("|", sw), Style{FG: t.CPUHigh}},
			span{strings.Repeat(" ", bw-uw-sw), Style{}},
			span{pct + "]", t.text()},
		)
	}
}

// drawMemoryMeter draws the Mem or Swp meter in the memory meter mode.
func (m Model) drawMemoryMeter(c *Canvas, r Rect, name string, used, total, cached uint64,
	pct float64, color lipgloss.Color, samples func(int) []float64) {
	t := m.theme
	info := FormatMeterBytes(used) + "/" + FormatMeterBytes(total)

	switch m.cfg.MemoryMeterMode {
	case config.MeterHidden:
		return

	case config.MeterText:
		drawSpans(c, r,
			span{name + ": ", t.label()},
			span{fmt.Sprintf("%5.1f%%", pct), Style{FG: color}},
			span{" (" + info + ")", t.text()},
		)

	case config.MeterGraph:
		gw := max(0, r.W-runewidth.StringWidth(info)-6)
		drawSpans(c, r,
			span{name + "[", t.label()},
			span{history.Sparkline(samples(2*gw), gw), Style{FG: color}},
			span{info + "]", t.text()},
		)

	default:
		bw := max(0, r.W-runewidth.StringWidth(info)-6)
		uw := min(bw, int(clampPct(pct))*bw/100)
		cw := 0
		if total > 0 {
			cw = min(bw-uw, int(cached*uint64(bw)/total))
		}
		drawSpans(c, r,
			span{name + "[", t.label()},
			span{strings.Repeat("|", uw), Style{FG: color}},
			span{strings.Repeat("|", cw), Style{FG: t.MemMid}},
			span{strings.Repeat(" ", bw-uw-cw), Style{}},
			span{info + "]", t.text()},
		)
	}
}

func (m Model) drawTasks(c *Canvas, r Rect) {
	if m.snap == nil {
		return
	}
	t := m.theme
	bold := Style{FG: t.Text, Bold: true}
	drawSpans(c, r,
		span{"Tasks: ", t.label()},
		span{fmt.Sprint(m.snap.TasksTotal), bold},
		span{", ", t.text()},
		span{fmt.Sprint(m.snap.ThreadsTotal), bold},
		span{" thr; ", t.text()},
		span{fmt.Sprint(m.snap.TasksRunning), Style{FG: t.StatusRunning, Bold: true}},
		span{" running", Style{FG: t.StatusRunning}},
	)
}

func (m Model) drawLoad(c *Canvas, r Rect) {
	if m.snap == nil {
		return
	}
	t := m.theme
	avg := clampPct(m.snap.AverageCPU())
	drawSpans(c, r,
		span{"CPU: ", t.label()},
		span{fmt.Sprintf("%5.1f%%", avg), Style{FG: t.cpuColor(avg)}},
		span{"  ", Style{}},
		span{"Uptime: ", t.label()},
		span{FormatUptime(m.snap.Uptime), t.text()},
	)
}

func (m Model) drawNet(c *Canvas, r Rect) {
	if m.snap == nil {
		return
	}
	t := m.theme
	drawSpans(c, r,
		span{"Net[", t.label()},
		span{"↓" + FormatRate(m.snap.NetRxRate), Style{FG: t.CPULow}},
		span{" ", Style{}},
		span{"↑" + FormatRate(m.snap.NetTxRate), Style{FG: t.SwapLow}},
		span{"]", t.label()},
	)
}

func (m Model) drawDisk(c *Canvas, r Rect) {
	if m.snap == nil {
		return
	}
	t := m.theme
	drawSpans(c, r,
		span{"Dsk[", t.label()},
		span{"R:" + FormatRate(m.snap.DiskReadRate), Style{FG: t.CPULow}},
		span{" ", Style{}},
		span{"W:" + FormatRate(m.snap.DiskWriteRate), Style{FG: t.CPUMid}},
		span{"]", t.label()},
	)
}

func (m Model) drawBattery(c *Canvas, r Rect) {
	s := m.snap
	if s == nil {
		return
	}
	t := m.theme
	if !s.HasBattery {
		drawSpans(c, r, span{"Host: ", t.label()}, span{s.Hostname, t.text()})
		return
	}
	color := t.CPUHigh
	switch {
	case s.BatteryPercent > 50:
		color = t.CPULow
	case s.BatteryPercent > 20:
		color = t.CPUMid
	}
	sign := "-"
	if s.BatteryCharging {
		sign = "+"
	}
	drawSpans(c, r,
		span{"Bat[", t.label()},
		span{fmt.Sprintf("%s%.0f%%", sign, s.BatteryPercent), Style{FG: color, Bold: true}},
		span{"]", t.label()},
	)
}
