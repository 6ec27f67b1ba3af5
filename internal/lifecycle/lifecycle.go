// Package lifecycle times a run and produces its final summary line.
//
// Stages never end the process. They report an Outcome, and main hands it
// to Controller.Terminate which logs the summary and returns the exit code.
package lifecycle

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Outcome classifies how a run ended.
type Outcome int

const (
	Clean Outcome = iota
	Fatal
)

// Reason returns the summary text for o.
func (o Outcome) Reason() string {
	if o == Clean {
		return "Clean exit."
	}
	return "Fatal error."
}

// ExitCode returns the process exit status for o.
func (o Outcome) ExitCode() int {
	if o == Clean {
		return 0
	}
	return 1
}

func (o Outcome) String() string {
	if o == Clean {
		return "clean"
	}
	return "fatal"
}

// State is the controller state.
type State int

const (
	Running State = iota
	Terminating
	Ended
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	default:
		return "ended"
	}
}

// Controller records the run start and ends the run exactly once.
type Controller struct {
	mu      sync.Mutex
	logger  *slog.Logger
	now     func() time.Time
	start   time.Time
	state   State
	outcome Outcome
}

// Start logs the start line and returns a running controller. A nil now
// uses time.Now.
func Start(logger *slog.Logger, start time.Time, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	c := &Controller{logger: logger, now: now, start: start}
	logger.Info("Script started.")
	return c
}

// StartedAt returns the run start time.
func (c *Controller) StartedAt() time.Time { return c.start }

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Terminate logs the summary line for o and returns the exit code.
// Later calls return the first call's exit code without logging again.
func (c *Controller) Terminate(o Outcome) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running {
		return c.outcome.ExitCode()
	}
	c.state = Terminating
	c.outcome = o

	elapsed := c.now().Sub(c.start)
	c.logger.Info(fmt.Sprintf("Script ended. Reason: %s Total runtime: %s.", o.Reason(), FormatRuntime(elapsed)))

	c.state = Ended
	return o.ExitCode()
}

// FormatRuntime renders d as [D day[s], ]H:MM:SS[.ffffff]. The fraction is
// omitted when it is zero.
func FormatRuntime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	const day = 24 * time.Hour
	days := d / day
	d -= days * day
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	us := d / time.Microsecond

	out := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	if us != 0 {
		out += fmt.Sprintf(".%06d", us)
	}
	switch {
	case days == 1:
		out = "1 day, " + out
	case days > 1:
		out = fmt.Sprintf("%d days, %s", days, out)
	}
	return out
}
