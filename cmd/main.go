package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/term"

	"github.com/faratech/htop-win/action"
	"github.com/faratech/htop-win/bench"
	"github.com/faratech/htop-win/config"
	"github.com/faratech/htop-win/logger"
	"github.com/faratech/htop-win/metrics"
	"github.com/faratech/htop-win/model"
	"github.com/faratech/htop-win/monitor"
	"github.com/faratech/htop-win/proc"
	"github.com/faratech/htop-win/ui"
)

const version = "0.9.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `htop-win %s
Interactive process viewer for Windows

USAGE: htop-win [OPTIONS]

OPTIONS:
  -d, --delay <MS>             Refresh rate in milliseconds
  -u, --user <USER>            Show only processes owned by USER
  -t, --tree                   Start in tree view mode
  -s, --sort <COLUMN>          Sort by: pid, cpu, mem, time, command, user, ppid, threads
      --no-mouse               Disable mouse support
      --no-color               Use monochrome mode
  -p, --pid <PID,...>          Show only specific PIDs (comma-separated)
  -F, --filter <FILTER>        Initial filter string
  -n, --max-iterations <N>     Exit after N updates
      --no-meters              Hide header meters
      --readonly               Disable kill/priority operations
  -H, --highlight-changes <S>  Highlight new processes for S seconds
      --benchmark [N]          Run N refreshes (default %d) and print timing stats
      --inefficient            Run at normal priority instead of Efficiency Mode
      --config <PATH>          Config file (default: user config dir)
      --log-file <PATH>        Write logs to PATH while the UI runs
      --log-level <LEVEL>      trace, debug, info, warn or error (default: info)
      --metrics-addr <ADDR>    Serve Prometheus metrics on ADDR
  -h, --help                   Print help
  -V, --version                Print version
`, version, bench.DefaultIterations)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.help {
		usage(stdout)
		return 0
	}
	if opts.version {
		fmt.Fprintf(stdout, "htop-win %s\n", version)
		return 0
	}
	if opts.maxIterations == 0 {
		return 0
	}

	logger.SetupConsole(opts.logLevel)

	if err := proc.EnableDebugPrivilege(); err != nil && !errors.Is(err, proc.ErrUnsupported) {
		log.Debug().Err(err).Msg("debug privilege not granted")
	}
	if !opts.inefficient {
		if err := proc.EnableSelfEfficiencyMode(); err != nil && !errors.Is(err, proc.ErrUnsupported) {
			log.Debug().Err(err).Msg("efficiency mode not enabled")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := metrics.New()
	if opts.metricsAddr != "" {
		go serveMetrics(ctx, opts.metricsAddr, m)
	}

	cfg, cfgPath := loadConfig(opts.configPath)
	opts.override(cfg)
	engine := monitor.NewEngine(m)

	if opts.benchmark.set {
		rep, err := bench.Run(ctx, engine, bench.Options{Iterations: opts.benchmark.n, Config: cfg})
		if err != nil {
			log.Error().Err(err).Msg("benchmark failed")
			return 1
		}
		if err := rep.Print(stdout); err != nil {
			return 1
		}
		return 0
	}

	if f, ok := stdout.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		log.Error().Msg("stdout is not a terminal")
		return 1
	}

	closeLog, err := logger.SetupBackground(logger.Options{
		Level:      opts.logLevel,
		File:       opts.logFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
	})
	if err != nil {
		log.Error().Err(err).Str("file", opts.logFile).Msg("failed to open log file")
		return 1
	}
	defer closeLog()

	log.Info().Str("version", version).Str("config", cfgPath).Msg("starting")

	err = ui.Run(ctx, ui.Options{
		Config:        cfg,
		ConfigPath:    cfgPath,
		Overrides:     opts.override,
		Source:        engine,
		Executor:      action.NewExecutor(proc.NewController(), cfg.ReadOnly, m),
		NoColor:       opts.noColor,
		HideMeters:    opts.noMeters,
		MaxIterations: max(opts.maxIterations, 0),
		UserFilter:    opts.user,
		Filter:        opts.filter,
		PIDs:          opts.pids,
		Sort:          opts.sort,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.SetupConsole(opts.logLevel)
		log.Error().Err(err).Msg("terminal UI failed")
		return 1
	}
	return 0
}

// loadConfig reads the config file, falling back to defaults. An empty
// returned path disables saving.
func loadConfig(path string) (*config.Config, string) {
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			log.Warn().Err(err).Msg("config disabled")
			return config.Default(), ""
		}
		path = p
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("using default config")
	}
	return cfg, path
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn().Err(err).Msg("metrics server stopped")
	}
}

type cliOptions struct {
	delayMs       int
	user          string
	tree          bool
	sortName      string
	noMouse       bool
	noColor       bool
	pidList       string
	filter        string
	maxIterations int
	noMeters      bool
	readonly      bool
	highlightSec  int
	help          bool
	version       bool
	benchmark     benchFlag
	inefficient   bool
	configPath    string
	logFile       string
	logLevel      string
	metricsAddr   string

	sort *model.Column
	pids []uint32
}

// override re-applies the command line on top of a loaded config.
func (o *cliOptions) override(cfg *config.Config) {
	if o.delayMs > 0 {
		cfg.RefreshRateMs = o.delayMs
	}
	if o.tree {
		cfg.TreeViewDefault = true
	}
	if o.readonly {
		cfg.ReadOnly = true
	}
	if o.noMouse {
		cfg.MouseEnabled = false
	}
	if o.highlightSec >= 0 {
		cfg.HighlightNewProcesses = true
		cfg.HighlightDurationMs = o.highlightSec * 1000
	}
}

// benchFlag is a boolean flag that optionally carries an iteration count.
type benchFlag struct {
	set bool
	n   int
}

func (b *benchFlag) String() string {
	if b == nil || !b.set {
		return ""
	}
	return strconv.Itoa(b.n)
}

func (b *benchFlag) IsBoolFlag() bool { return true }

func (b *benchFlag) Set(s string) error {
	switch s {
	case "true":
		b.set, b.n = true, bench.DefaultIterations
		return nil
	case "false":
		b.set = false
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid iteration count %q", s)
	}
	b.set, b.n = true, n
	return nil
}

// joinOptionalValues turns "--benchmark 50" into "--benchmark=50" so the
// boolean flag can take a count.
func joinOptionalValues(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if (a == "--benchmark" || a == "-benchmark") && i+1 < len(args) {
			if _, err := strconv.Atoi(args[i+1]); err == nil {
				out = append(out, a+"="+args[i+1])
				i++
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func parseArgs(args []string, stderr io.Writer) (*cliOptions, error) {
	o := &cliOptions{}
	fs := flag.NewFlagSet("htop-win", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {}

	fs.IntVar(&o.delayMs, "d", 0, "")
	fs.IntVar(&o.delayMs, "delay", 0, "")
	fs.StringVar(&o.user, "u", "", "")
	fs.StringVar(&o.user, "user", "", "")
	fs.BoolVar(&o.tree, "t", false, "")
	fs.BoolVar(&o.tree, "tree", false, "")
	fs.StringVar(&o.sortName, "s", "", "")
	fs.StringVar(&o.sortName, "sort", "", "")
	fs.BoolVar(&o.noMouse, "no-mouse", false, "")
	fs.BoolVar(&o.noColor, "no-color", false, "")
	fs.StringVar(&o.pidList, "p", "", "")
	fs.StringVar(&o.pidList, "pid", "", "")
	fs.StringVar(&o.filter, "F", "", "")
	fs.StringVar(&o.filter, "filter", "", "")
	fs.IntVar(&o.maxIterations, "n", -1, "")
	fs.IntVar(&o.maxIterations, "max-iterations", -1, "")
	fs.BoolVar(&o.noMeters, "no-meters", false, "")
	fs.BoolVar(&o.readonly, "readonly", false, "")
	fs.IntVar(&o.highlightSec, "H", -1, "")
	fs.IntVar(&o.highlightSec, "highlight-changes", -1, "")
	fs.BoolVar(&o.help, "h", false, "")
	fs.BoolVar(&o.help, "help", false, "")
	fs.BoolVar(&o.version, "V", false, "")
	fs.BoolVar(&o.version, "version", false, "")
	fs.Var(&o.benchmark, "benchmark", "")
	fs.BoolVar(&o.inefficient, "inefficient", false, "")
	fs.StringVar(&o.configPath, "config", "", "")
	fs.StringVar(&o.logFile, "log-file", "", "")
	fs.StringVar(&o.logLevel, "log-level", "info", "")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "")

	if err := fs.Parse(joinOptionalValues(args)); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if o.help || o.version {
		return o, nil
	}

	if o.delayMs < 0 {
		return nil, fmt.Errorf("invalid delay %d", o.delayMs)
	}
	if o.sortName != "" {
		c, ok := model.ParseColumn(o.sortName)
		if !ok {
			return nil, fmt.Errorf("unknown sort column %q", o.sortName)
		}
		o.sort = &c
	}
	if o.pidList != "" {
		pids, err := parsePIDs(o.pidList)
		if err != nil {
			return nil, err
		}
		o.pids = pids
	}
	if o.maxIterations < -1 {
		return nil, fmt.Errorf("invalid iteration count %d", o.maxIterations)
	}
	if o.highlightSec < -1 {
		return nil, fmt.Errorf("invalid highlight duration %d", o.highlightSec)
	}
	if !logger.ValidLevel(o.logLevel) {
		return nil, fmt.Errorf("unknown log level %q", o.logLevel)
	}
	return o, nil
}

func parsePIDs(s string) ([]uint32, error) {
	var pids []uint32
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid pid %q", part)
		}
		pids = append(pids, uint32(n))
	}
	if len(pids) == 0 {
		return nil, fmt.Errorf("empty pid list %q", s)
	}
	return pids, nil
}
