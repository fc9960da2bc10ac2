package parser

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// State is the externally visible state of a Controller.
type State int

const (
	// StateIdle means no run is active.
	StateIdle State = iota
	// StateRunning means a run is reading its file.
	StateRunning
)

// String returns a lowercase name for the state.
func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Controller supervises background parse runs. At most one run is active
// at any instant: Start stops and joins the previous run before launching
// the next one, so two runs never write to a sink concurrently.
type Controller struct {
	scheduler *Scheduler

	// mu serializes Start and Stop.
	mu      sync.Mutex
	current *run

	running atomic.Bool
	last    atomic.Pointer[Status]
}

type run struct {
	id     uuid.UUID
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController returns an idle controller whose runs decode with decoder.
func NewController(decoder *Decoder, opts ...Option) *Controller {
	return &Controller{scheduler: NewScheduler(decoder, opts...)}
}

// Start launches a run that streams path into sink and reports through
// progress. A run already in progress is cancelled and joined first.
// Cancelling ctx cancels the run. The returned ID tags every status of the
// new run.
func (c *Controller) Start(ctx context.Context, path string, sink Sink, progress ProgressFunc) uuid.UUID {
	if sink == nil {
		sink = SinkFunc(func([]Record) {})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		id:     uuid.New(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	c.current = r
	c.running.Store(true)

	go c.work(runCtx, r, path, sink, progress)

	return r.id
}

func (c *Controller) work(ctx context.Context, r *run, path string, sink Sink, progress ProgressFunc) {
	var st Status
	defer func() {
		if p := recover(); p != nil {
			st = Status{RunID: r.id, Kind: StatusFailed, Err: fmt.Errorf("parse run panicked: %v", p)}
		}
		c.last.Store(&st)
		c.running.Store(false)
		r.cancel()
		close(r.done)
	}()

	st = c.scheduler.Run(ctx, r.id, path, sink, progress)
}

// Stop cancels the active run, if any, and blocks until it has exited. No
// sink append of that run happens after Stop returns. Stop must not be
// called from a ProgressFunc.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.current == nil {
		return
	}
	c.current.cancel()
	<-c.current.done
	c.current = nil
}

// Wait blocks until the current run ends on its own and returns its
// terminal status. Without a run it returns the last terminal status.
func (c *Controller) Wait() Status {
	c.mu.Lock()
	r := c.current
	c.mu.Unlock()

	if r != nil {
		<-r.done
	}
	st, _ := c.Last()
	return st
}

// IsRunning reports whether a run is active. It never blocks.
func (c *Controller) IsRunning() bool {
	return c.running.Load()
}

// State returns StateRunning while a run is active and StateIdle otherwise.
func (c *Controller) State() State {
	if c.IsRunning() {
		return StateRunning
	}
	return StateIdle
}

// Last returns the terminal status of the most recent finished run.
func (c *Controller) Last() (Status, bool) {
	st := c.last.Load()
	if st == nil {
		return Status{}, false
	}
	return *st, true
}

// BatchSize returns the flush threshold of the controller's runs.
func (c *Controller) BatchSize() int {
	return c.scheduler.BatchSize()
}

// ParseAll decodes path synchronously with the controller's grammar. It
// blocks for the whole file and cannot be cancelled.
func (c *Controller) ParseAll(path string) ([]Record, error) {
	return c.scheduler.ParseAll(path)
}

// ParseAllStatus is ParseAll returning the terminal status, which carries
// the number of lines read.
func (c *Controller) ParseAllStatus(path string) ([]Record, Status) {
	return c.scheduler.ParseAllStatus(path)
}
