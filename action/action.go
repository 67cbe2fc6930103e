// Package action executes the destructive process operations behind the
// kill, priority and affinity dialogs.
package action

import (
	"errors"
	"fmt"

	"github.com/phuslu/log"

	"github.com/faratech/htop-win/metrics"
	"github.com/faratech/htop-win/model"
)

var (
	ErrReadOnly      = errors.New("read-only mode: action disabled")
	ErrEmptyAffinity = errors.New("Cannot set empty affinity mask")
	ErrNoTarget      = errors.New("no process selected")
)

// Controller performs the OS calls. proc.Controller implements it.
type Controller interface {
	Terminate(pid uint32, exitCode uint32) error
	SetPriorityClass(pid uint32, class uint32) error
	SetAffinity(pid uint32, mask uint64) error
}

// Signal is a UNIX-style signal offered by the signal dialog. Windows has
// no signals; the number becomes the process exit code.
type Signal struct {
	Number      uint32
	Name        string
	Description string
}

const (
	SigTerm uint32 = 15
	SigKill uint32 = 9
)

var Signals = []Signal{
	{15, "SIGTERM", "Terminate gracefully"},
	{9, "SIGKILL", "Force terminate"},
	{1, "SIGHUP", "Hangup"},
	{2, "SIGINT", "Interrupt (Ctrl+C)"},
	{3, "SIGQUIT", "Quit"},
	{6, "SIGABRT", "Abort"},
	{14, "SIGALRM", "Alarm clock"},
	{18, "SIGCONT", "Continue"},
	{19, "SIGSTOP", "Stop"},
}

// Result is the outcome of an action on one PID.
type Result struct {
	PID uint32
	Err error
}

// Executor guards a Controller with the read-only switch and records each
// outcome.
type Executor struct {
	ctl      Controller
	readOnly bool
	metrics  *metrics.Metrics
}

func NewExecutor(ctl Controller, readOnly bool, m *metrics.Metrics) *Executor {
	return &Executor{ctl: ctl, readOnly: readOnly, metrics: m}
}

func (e *Executor) ReadOnly() bool { return e.readOnly }

func (e *Executor) SetReadOnly(v bool) { e.readOnly = v }

// Terminate ends every pid with exitCode and returns one result per pid.
func (e *Executor) Terminate(pids []uint32, exitCode uint32) []Result {
	results := make([]Result, 0, len(pids))
	for _, pid := range pids {
		var err error
		if e.readOnly {
			err = ErrReadOnly
		} else {
			err = e.ctl.Terminate(pid, exitCode)
		}
		e.record("terminate", pid, err)
		results = append(results, Result{PID: pid, Err: err})
	}
	return results
}

// SetPriority moves pid into class.
func (e *Executor) SetPriority(pid uint32, class model.PriorityClass) error {
	if e.readOnly {
		return ErrReadOnly
	}
	err := e.ctl.SetPriorityClass(pid, class.Value())
	e.record("priority", pid, err)
	return err
}

// SetAffinity restricts pid to the CPUs in mask. An empty mask is rejected
// before any OS call.
func (e *Executor) SetAffinity(pid uint32, mask uint64) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if mask == 0 {
		return ErrEmptyAffinity
	}
	err := e.ctl.SetAffinity(pid, mask)
	e.record("affinity", pid, err)
	return err
}

func (e *Executor) record(kind string, pid uint32, err error) {
	e.metrics.Action(kind, err)
	if err != nil {
		log.Warn().Err(err).Str("action", kind).Uint32("pid", pid).Msg("process action failed")
		return
	}
	log.Info().Str("action", kind).Uint32("pid", pid).Msg("process action applied")
}

// FirstError joins the failures of a batch into one error, or nil.
func FirstError(results []Result) error {
	var failed []error
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Err)
		}
	}
	switch len(failed) {
	case 0:
		return nil
	case 1:
		return failed[0]
	default:
		return fmt.Errorf("%w (and %d more)", failed[0], len(failed)-1)
	}
}
