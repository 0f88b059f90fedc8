package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xrsl/cvlift/pkg/form"
	clog "github.com/xrsl/cvlift/pkg/log"
	"github.com/xrsl/cvlift/pkg/notify"
)

// DefaultPhaseDelay is the wait before each phase checkpoint.
const DefaultPhaseDelay = 1500 * time.Millisecond

// Phase is one step of a run.
type Phase struct {
	Progress int
	Message  string
	Remote   bool
}

// Phases are executed in order by every run.
var Phases = []Phase{
	{Progress: 25, Message: "Accessing your Google Doc..."},
	{Progress: 50, Message: "Analyzing content with AI..."},
	{Progress: 75, Message: "Generating improvements...", Remote: true},
	{Progress: 100, Message: "Updating your document..."},
}

// State is a position in the submission state machine.
type State int

const (
	Idle State = iota
	Validating
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Enhancer performs the actual resume edit.
type Enhancer interface {
	Enhance(ctx context.Context, v form.Values) error
}

// Observer is told about every transition and progress checkpoint.
type Observer interface {
	StateChanged(s State)
	Progressed(percent int)
}

// Failure is returned when a run that entered Running does not complete.
type Failure struct {
	Phase int // index into Phases, -1 when outside a phase
	Err   error
}

func (e *Failure) Error() string {
	if e.Phase < 0 {
		return fmt.Sprintf("workflow failed: %v", e.Err)
	}
	return fmt.Sprintf("workflow failed in phase %d (%s): %v", e.Phase+1, Phases[e.Phase].Message, e.Err)
}

func (e *Failure) Unwrap() error {
	return e.Err
}

// Runner executes submissions. The zero value runs the simulated workflow
// with DefaultPhaseDelay and discards notifications.
type Runner struct {
	// Delay is the wait before each checkpoint. Zero means
	// DefaultPhaseDelay; a negative value disables waiting.
	Delay    time.Duration
	Sink     notify.Sink
	Observer Observer
	Enhancer Enhancer

	// Wait defaults to a context-aware timer.
	Wait func(ctx context.Context, d time.Duration) error
}

// Submit validates s and, when valid, runs every phase. Validation errors and
// form.ErrBusy are returned as-is; a run that started and did not finish
// returns a *Failure. Every outcome is also reported as a notification.
func (r *Runner) Submit(ctx context.Context, s *form.State) error {
	r.transition(Validating)

	v, err := s.Begin()
	if err != nil {
		r.notify(Notification(err))
		if !errors.Is(err, form.ErrBusy) {
			r.transition(Idle)
		}
		clog.Debug("submission rejected", "error", err)
		return err
	}

	r.transition(Running)
	r.progressed(0)
	clog.Info("workflow started", "link", v.Link, "improvement", v.Selection)

	runErr := r.run(ctx, s, v)

	// Reset happens before the outcome is published so observers see the
	// cleared form together with the final state.
	s.Reset()
	if runErr != nil {
		r.transition(Failed)
		r.notify(Notification(runErr))
		clog.Warn("workflow failed", "error", runErr)
	} else {
		r.transition(Succeeded)
		r.notify(SuccessNotification())
		clog.Info("workflow succeeded", "link", v.Link)
	}
	r.progressed(0)
	r.transition(Idle)
	return runErr
}

func (r *Runner) run(ctx context.Context, s *form.State, v form.Values) (err error) {
	current := -1
	defer func() {
		if p := recover(); p != nil {
			err = &Failure{Phase: current, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	for i, phase := range Phases {
		current = i
		if err := r.wait(ctx); err != nil {
			return &Failure{Phase: i, Err: err}
		}
		if phase.Remote && r.Enhancer != nil {
			if err := r.Enhancer.Enhance(ctx, v); err != nil {
				return &Failure{Phase: i, Err: err}
			}
		}
		if err := s.Advance(phase.Progress); err != nil {
			return &Failure{Phase: i, Err: err}
		}
		r.progressed(phase.Progress)
		r.notify(notify.Info(titleProcessing, phase.Message))
	}
	return nil
}

func (r *Runner) wait(ctx context.Context) error {
	d := r.Delay
	if d == 0 {
		d = DefaultPhaseDelay
	}
	if r.Wait != nil {
		return r.Wait(ctx, d)
	}
	return Sleep(ctx, d)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Runner) notify(n notify.Notification) {
	if r.Sink != nil {
		r.Sink.Notify(n)
	}
}

func (r *Runner) transition(s State) {
	if r.Observer != nil {
		r.Observer.StateChanged(s)
	}
}

func (r *Runner) progressed(p int) {
	if r.Observer != nil {
		r.Observer.Progressed(p)
	}
}
