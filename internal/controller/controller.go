// Package controller binds a gesture configuration to a running engine.
//
// The controller compiles the configured patterns against the application's
// actions, serializes dispatches with configuration reloads, recovers
// handler panics, and records sessions into the journal when one is
// attached.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"interact/internal/config"
	"interact/internal/engine"
	"interact/internal/event"
	"interact/internal/journal"
	"interact/internal/logging"
	"interact/internal/pattern"
	"interact/internal/recognizer"
)

// ErrNotRecording is returned by StopRecording when no session is open.
var ErrNotRecording = errors.New("controller: no session is being recorded")

// PanicError describes a handler panic recovered during a dispatch.
type PanicError struct {
	Event event.Event
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked on %s: %v", e.Event, e.Value)
}

// Stats extends the engine counters with controller events.
type Stats struct {
	engine.Stats
	Panics        uint64
	Reloads       uint64
	JournalErrors uint64
}

// Controller owns the engine for a configuration. It is safe for concurrent
// use; handlers run with the controller locked and must not call back into it.
type Controller struct {
	mu      sync.Mutex
	engine  *engine.Engine
	resolve pattern.Resolver
	logger  *logging.Logger

	journal *journal.Journal
	session int64
	seq     int64

	panics        uint64
	reloads       uint64
	journalErrors uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The engine logs through a child of it.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New compiles the gestures of cfg and returns a controller running them.
// Action names are looked up through resolve.
func New(cfg *config.Config, resolve pattern.Resolver, opts ...Option) (*Controller, error) {
	c := &Controller{
		resolve: resolve,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	gestures, err := Build(cfg.Gestures, resolve)
	if err != nil {
		return nil, err
	}
	c.engine = c.newEngine(gestures)
	return c, nil
}

// Build compiles gesture declarations into engine gestures. The optional
// action of a declaration runs after any handler the pattern itself puts on
// the whole gesture.
func Build(decls []config.GestureConfig, resolve pattern.Resolver) ([]engine.Gesture, error) {
	gestures := make([]engine.Gesture, 0, len(decls))
	for _, d := range decls {
		r, err := pattern.Compile(d.Pattern, resolve)
		if err != nil {
			return nil, fmt.Errorf("gesture %q: %w", d.Name, err)
		}

		if d.Action != "" {
			var h recognizer.Handler
			var ok bool
			if resolve != nil {
				h, ok = resolve(d.Action)
			}
			if !ok {
				return nil, fmt.Errorf("gesture %q: unknown action %q", d.Name, d.Action)
			}
			if h != nil {
				r = recognizer.WithHandler(r, chain(r.Handler(), h))
			}
		}

		gestures = append(gestures, engine.Gesture{Name: d.Name, Recognizer: r})
	}
	return gestures, nil
}

func chain(first, then recognizer.Handler) recognizer.Handler {
	if first == nil {
		return then
	}
	return func(s event.State) {
		first(s)
		then(s)
	}
}

func (c *Controller) newEngine(gestures []engine.Gesture) *engine.Engine {
	return engine.New(gestures, engine.WithLogger(c.logger.WithComponent("engine")))
}

// Dispatch feeds one event to the engine. Handler panics are logged and
// reset the engine.
func (c *Controller) Dispatch(ev event.Event, s event.State) {
	_, _ = c.Feed(ev, s)
}

// Feed is Dispatch with the engine result. A handler panic is returned as a
// *PanicError after the engine has been reset.
func (c *Controller) Feed(ev event.Event, s event.State) (res engine.Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := c.seq
	c.seq++
	c.record(func(j *journal.Journal) error {
		return j.RecordEvent(c.session, seq, ev, s)
	})

	defer func() {
		if r := recover(); r != nil {
			perr := &PanicError{Event: ev, Value: r, Stack: string(debug.Stack())}
			c.panics++
			c.engine.Reset()
			c.logger.Error("gesture handler panicked, engine reset",
				slog.String("event", ev.String()),
				slog.Any("panic", r),
				slog.String("stack", perr.Stack))
			res, err = engine.Result{}, perr
		}
	}()

	res = c.engine.Dispatch(ev, s)
	for _, name := range res.Completed {
		c.record(func(j *journal.Journal) error {
			return j.RecordFiring(c.session, seq, name)
		})
	}
	return res, nil
}

// Reload replaces the gesture set with the one declared in cfg. All
// progress is discarded. On error the running gestures are kept.
func (c *Controller) Reload(cfg *config.Config) error {
	gestures, err := Build(cfg.Gestures, c.resolve)
	if err != nil {
		c.logger.Warn("reload rejected, keeping current gestures", slog.Any("error", err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = c.newEngine(gestures)
	c.reloads++
	c.logger.Info("gestures reloaded", slog.Int("count", len(gestures)))
	return nil
}

// Reset discards all progress.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.Reset()
}

// Gestures returns the names of the running gestures in declaration order.
func (c *Controller) Gestures() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	gestures := c.engine.Gestures()
	names := make([]string, len(gestures))
	for i, g := range gestures {
		names[i] = g.Name
	}
	return names
}

// Live returns the names of the gestures in progress.
func (c *Controller) Live() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Live()
}

// Stats returns the cumulative counters. Engine counters restart on Reload.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Stats:         c.engine.Stats(),
		Panics:        c.panics,
		Reloads:       c.reloads,
		JournalErrors: c.journalErrors,
	}
}

// StartRecording opens a journal session. Every following event and
// completion is recorded into it until StopRecording.
func (c *Controller) StartRecording(j *journal.Journal, source string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.journal != nil {
		return 0, fmt.Errorf("controller: session %d is already being recorded", c.session)
	}
	id, err := j.BeginSession(source)
	if err != nil {
		return 0, fmt.Errorf("begin session: %w", err)
	}
	c.journal = j
	c.session = id
	c.seq = 0
	c.logger.Info("recording session", slog.Int64("session", id), slog.String("source", source))
	return id, nil
}

// StopRecording ends the open journal session.
func (c *Controller) StopRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.journal == nil {
		return ErrNotRecording
	}
	err := c.journal.EndSession(c.session)
	c.logger.Info("session ended", slog.Int64("session", c.session), slog.Int64("events", c.seq))
	c.journal = nil
	c.session = 0
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// record writes to the journal if one is attached. Failures are logged and
// counted; they never interrupt dispatch.
func (c *Controller) record(write func(*journal.Journal) error) {
	if c.journal == nil {
		return
	}
	if err := write(c.journal); err != nil {
		c.journalErrors++
		c.logger.Warn("journal write failed", slog.Int64("session", c.session), slog.Any("error", err))
	}
}
