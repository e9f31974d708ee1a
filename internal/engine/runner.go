package engine

import (
	"context"
	"time"
)

// Event is passed to tick listeners.
type Event struct {
	Timestamp float64 // engine time in ms
	Delta     float64
}

// Runner steps an engine with a fixed delta and notifies listeners around
// each update.
type Runner struct {
	Delta float64

	engine *Engine
	before []func(Event)
	after  []func(Event)
}

func NewRunner(e *Engine) *Runner {
	return &Runner{Delta: BaseDelta, engine: e}
}

func (r *Runner) Engine() *Engine { return r.engine }

func (r *Runner) OnBeforeTick(fn func(Event)) { r.before = append(r.before, fn) }
func (r *Runner) OnAfterTick(fn func(Event))  { r.after = append(r.after, fn) }

// Tick performs one update.
func (r *Runner) Tick() error {
	ev := Event{Timestamp: r.engine.Timestamp, Delta: r.Delta}
	for _, fn := range r.before {
		fn(ev)
	}
	if err := r.engine.Update(r.Delta); err != nil {
		return err
	}
	ev.Timestamp = r.engine.Timestamp
	for _, fn := range r.after {
		fn(ev)
	}
	return nil
}

// Run ticks in real time until ctx is done or an update fails.
func (r *Runner) Run(ctx context.Context) error {
	if !(r.Delta > 0) {
		return ErrInvalidDelta
	}
	ticker := time.NewTicker(time.Duration(r.Delta * float64(time.Millisecond)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Tick(); err != nil {
				return err
			}
		}
	}
}
