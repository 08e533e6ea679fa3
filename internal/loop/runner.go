// Package loop drives a catch.Round from a frame ticker.
//
// A Runner owns its round: one goroutine (Run) executes every tick and
// every input command to completion, so the round needs no locking.
// Commands from other goroutines are queued onto that goroutine and
// waited for. Starting a round stops the previous ticker before a new one
// is created, so two tick streams never coexist; a finished round stops
// its ticker. Each round carries the tag it was started with, and OnFinish
// receives that tag, never the tag of a later Start.
package loop

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/catch/internal/catch"
)

// ErrStopped is returned by commands issued after Run has returned.
var ErrStopped = errors.New("loop: runner stopped")

const defaultFrameRate = 60

// Frame is what a renderer receives after each tick or command.
type Frame struct {
	Snapshot catch.Snapshot `json:"snapshot"`
	Events   []catch.Event  `json:"events,omitempty"`
}

// Ticker is the per-frame signal. *time.Ticker is adapted by NewTimeTicker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} }

type Options struct {
	// FrameRate is ticks per second (default 60).
	FrameRate int
	// Clock defaults to time.Now. Round timestamps are milliseconds since
	// the runner was created.
	Clock func() time.Time
	// NewTicker defaults to NewTimeTicker.
	NewTicker func(time.Duration) Ticker
	// OnFrame is called on the loop goroutine after Start, every tick and Stop.
	OnFrame func(Frame)
	// OnFinish is called on the loop goroutine once per finished round,
	// with the tag passed to the Start that began it.
	OnFinish func(res catch.Result, tag any)
}

type Runner struct {
	round    *catch.Round
	interval time.Duration
	clock    func() time.Time
	origin   time.Time
	newTick  func(time.Duration) Ticker
	onFrame  func(Frame)
	onFinish func(catch.Result, any)

	tag    any // of the current round
	ticker Ticker
	cmds   chan func()
	done   chan struct{}
}

// New wraps round. Call Run to start processing.
func New(round *catch.Round, opts Options) *Runner {
	if opts.FrameRate <= 0 {
		opts.FrameRate = defaultFrameRate
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTimeTicker
	}
	return &Runner{
		round:    round,
		interval: time.Second / time.Duration(opts.FrameRate),
		clock:    opts.Clock,
		origin:   opts.Clock(),
		newTick:  opts.NewTicker,
		onFrame:  opts.OnFrame,
		onFinish: opts.OnFinish,
		cmds:     make(chan func()),
		done:     make(chan struct{}),
	}
}

// Run processes ticks and commands until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.stopTicker()
	for {
		var tickC <-chan time.Time
		if r.ticker != nil {
			tickC = r.ticker.C()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-r.cmds:
			cmd()
		case <-tickC:
			r.tick()
		}
	}
}

// Start begins a new round, replacing any round in progress. tag is
// handed back to OnFinish when this round finishes.
func (r *Runner) Start(items []catch.Item, mode catch.Mode, tag any) error {
	var startErr error
	err := r.do(func() {
		r.stopTicker()
		r.tag = tag
		events, err := r.round.Start(items, mode, r.now())
		if err != nil {
			startErr = err
			r.emit(nil)
			return
		}
		r.ticker = r.newTick(r.interval)
		r.emit(events)
	})
	if err != nil {
		return err
	}
	return startErr
}

// Move shifts the player; the next frame shows it.
func (r *Runner) Move(dir catch.Direction, step catch.Step) error {
	return r.do(func() { r.round.Move(dir, step) })
}

// Stop abandons the current round and cancels its tick stream.
func (r *Runner) Stop() error {
	return r.do(func() {
		r.stopTicker()
		r.round.Stop()
		r.emit(nil)
	})
}

// Snapshot returns the current state of the round.
func (r *Runner) Snapshot() (catch.Snapshot, error) {
	var snap catch.Snapshot
	err := r.do(func() { snap = r.round.Snapshot() })
	return snap, err
}

// ticking reports whether a tick stream is active.
func (r *Runner) ticking() (bool, error) {
	var on bool
	err := r.do(func() { on = r.ticker != nil })
	return on, err
}

func (r *Runner) tick() {
	events := r.round.Tick(r.now())
	r.emit(events)
	if r.round.Phase() != catch.PhaseFinished {
		return
	}
	r.stopTicker()
	res, err := r.round.Result()
	if err != nil {
		log.Error().Err(err).Msg("finished round has no result")
		return
	}
	if r.onFinish != nil {
		r.onFinish(res, r.tag)
	}
}

// do runs fn on the loop goroutine and waits for it.
func (r *Runner) do(fn func()) error {
	ran := make(chan struct{})
	select {
	case r.cmds <- func() { fn(); close(ran) }:
	case <-r.done:
		return ErrStopped
	}
	select {
	case <-ran:
		return nil
	case <-r.done:
		return ErrStopped
	}
}

func (r *Runner) emit(events []catch.Event) {
	if r.onFrame != nil {
		r.onFrame(Frame{Snapshot: r.round.Snapshot(), Events: events})
	}
}

func (r *Runner) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

func (r *Runner) now() float64 {
	return float64(r.clock().Sub(r.origin).Microseconds()) / 1000
}
