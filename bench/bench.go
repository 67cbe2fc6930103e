// Package bench drives the refresh and render pipeline without a terminal
// and reports how long each half took.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/phuslu/log"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/term"

	"github.com/faratech/htop-win/config"
	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/ui"
)

const (
	DefaultIterations = 20
	DefaultInterval   = 10 * time.Millisecond

	defaultWidth  = 120
	defaultHeight = 40
)

// Runner is a Source that can also refresh on its own schedule.
// monitor.Engine implements it.
type Runner interface {
	ui.Source
	Run(ctx context.Context, interval time.Duration, fn func(*model.SystemSnapshot) bool) error
}

type Options struct {
	Iterations int
	Interval   time.Duration
	Width      int
	Height     int
	Config     *config.Config

	// CPUTime returns the CPU time consumed by this process so far.
	// Defaults to a gopsutil lookup of our own pid.
	CPUTime func() (time.Duration, error)
}

// Timing accumulates durations of one phase.
type Timing struct {
	Min   time.Duration
	Max   time.Duration
	Total time.Duration
	N     int
}

func (t *Timing) add(d time.Duration) {
	if t.N == 0 || d < t.Min {
		t.Min = d
	}
	if d > t.Max {
		t.Max = d
	}
	t.Total += d
	t.N++
}

func (t Timing) Avg() time.Duration {
	if t.N == 0 {
		return 0
	}
	return t.Total / time.Duration(t.N)
}

type Report struct {
	Iterations int
	Processes  int
	Refresh    Timing
	Draw       Timing
	Wall       time.Duration
	CPU        time.Duration
}

// CPUPercent is CPU time over wall time.
func (r *Report) CPUPercent() float64 {
	if r.Wall <= 0 {
		return 0
	}
	return float64(r.CPU) / float64(r.Wall) * 100
}

// Run performs opts.Iterations refreshes, rendering a frame after each.
func Run(ctx context.Context, src Runner, opts Options) (*Report, error) {
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = defaultWidth, defaultHeight
	}
	if opts.CPUTime == nil {
		opts.CPUTime = ownCPUTime
	}

	m := ui.NewModel(ui.Options{Config: opts.Config, Source: src}).Resize(opts.Width, opts.Height)

	cpuStart, err := opts.CPUTime()
	if err != nil {
		log.Warn().Err(err).Msg("cpu time unavailable")
	}

	rep := &Report{}
	start := time.Now()

	err = src.Run(ctx, opts.Interval, func(snap *model.SystemSnapshot) bool {
		rep.Refresh.add(time.Since(snap.TakenAt))

		drawStart := time.Now()
		m = m.Apply(snap)
		_ = m.Frame()
		rep.Draw.add(time.Since(drawStart))

		rep.Iterations++
		rep.Processes = len(snap.Processes)
		log.Debug().Int("iteration", rep.Iterations).Int("processes", rep.Processes).Msg("benchmark tick")
		return rep.Iterations < opts.Iterations
	})
	rep.Wall = time.Since(start)
	if err != nil && !errors.Is(err, context.Canceled) {
		return rep, fmt.Errorf("failed to run benchmark: %w", err)
	}

	if cpuEnd, err := opts.CPUTime(); err == nil && cpuEnd > cpuStart {
		rep.CPU = cpuEnd - cpuStart
	}
	return rep, nil
}

func ownCPUTime() (time.Duration, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, fmt.Errorf("failed to open own process: %w", err)
	}
	t, err := p.Times()
	if err != nil {
		return 0, fmt.Errorf("failed to read cpu times: %w", err)
	}
	return time.Duration((t.User + t.System) * float64(time.Second)), nil
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
)

// Render lays the report out as a box no wider than width.
func (r *Report) Render(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("BENCHMARK RESULTS"))
	fmt.Fprintf(&b, "\nIterations: %6d    Processes: %6d\n", r.Iterations, r.Processes)

	phase := func(name string, t Timing) {
		if t.N == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render(name))
		fmt.Fprintf(&b, "  Total: %10s  Avg: %10s\n", round(t.Total), round(t.Avg()))
		fmt.Fprintf(&b, "  Min:   %10s  Max: %10s\n", round(t.Min), round(t.Max))
	}
	phase("REFRESH (system data collection)", r.Refresh)
	phase("DRAW (UI rendering)", r.Draw)

	fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("OVERALL"))
	fmt.Fprintf(&b, "  Wall time:  %10s\n", round(r.Wall))
	fmt.Fprintf(&b, "  CPU time:   %10s\n", round(r.CPU))
	fmt.Fprintf(&b, "  CPU usage:  %9.1f%%", r.CPUPercent())

	st := boxStyle
	if width > 4 {
		st = st.MaxWidth(width)
	}
	return st.Render(b.String())
}

// Print writes the report sized to the terminal on w, if it is one.
func (r *Report) Print(w io.Writer) error {
	width := 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = tw
		}
	}
	_, err := fmt.Fprintln(w, r.Render(width))
	return err
}

func round(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Microsecond).String()
	}
}
