// Package engine routes input events to a set of gesture recognizers.
//
// Every dispatch runs a try pass over the live instances. When no gesture is
// left in progress after it, the live set is rebuilt from the prototypes and
// the same event is replayed against it, so an event that ends one gesture
// can still start the next one.
package engine

import (
	"log/slog"

	"interact/internal/event"
	"interact/internal/logging"
	"interact/internal/recognizer"
)

// Gesture is a named recognizer prototype.
type Gesture struct {
	Name       string
	Recognizer recognizer.Recognizer
}

// Result describes one dispatch.
type Result struct {
	// Completed lists the gestures that succeeded on the event, in
	// declaration order.
	Completed []string
	// Replayed is set when the try pass left nothing alive.
	Replayed bool
	// Live is the number of gestures in progress afterwards.
	Live int
}

// Stats are cumulative dispatch counters.
type Stats struct {
	Dispatched  uint64
	Replays     uint64
	Completions uint64
	Resets      uint64
}

type live struct {
	index    int
	instance *recognizer.Instance
}

// Engine owns gesture prototypes and their live instances. It is not safe
// for concurrent use, and handlers must not call Dispatch.
type Engine struct {
	gestures []Gesture
	live     []live
	stats    Stats
	logger   *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New returns an engine for gestures. The slice is copied.
func New(gestures []Gesture, opts ...Option) *Engine {
	e := &Engine{
		gestures: append([]Gesture(nil), gestures...),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.live = e.freshAll()
	return e
}

// Gestures returns a copy of the declared gestures.
func (e *Engine) Gestures() []Gesture {
	return append([]Gesture(nil), e.gestures...)
}

// Live returns the names of the gestures currently in progress.
func (e *Engine) Live() []string {
	names := make([]string, len(e.live))
	for i, l := range e.live {
		names[i] = e.gestures[l.index].Name
	}
	return names
}

// Stats returns the cumulative counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Reset discards all progress and rebuilds the live set. Callers use it to
// recover after a handler panicked out of Dispatch.
func (e *Engine) Reset() {
	e.live = e.freshAll()
	e.stats.Resets++
}

// Dispatch feeds ev to every live gesture. Handlers run before it returns;
// a panicking handler aborts the dispatch and leaves the live set undefined
// until Reset.
func (e *Engine) Dispatch(ev event.Event, s event.State) Result {
	e.stats.Dispatched++

	var res Result
	completed := make([]bool, len(e.gestures))

	next := e.pass(e.live, ev, s, completed)
	if len(next) == 0 {
		res.Replayed = true
		e.stats.Replays++
		e.logger.Debug("no gesture in progress, replaying event", slog.String("event", ev.String()))
		next = e.replay(ev, s, completed)
	}
	e.live = next

	for i, done := range completed {
		if done {
			res.Completed = append(res.Completed, e.gestures[i].Name)
		}
	}
	e.stats.Completions += uint64(len(res.Completed))
	res.Live = len(e.live)
	return res
}

// pass feeds ev to instances and keeps those still active.
func (e *Engine) pass(instances []live, ev event.Event, s event.State, completed []bool) []live {
	var active []live
	for _, l := range instances {
		switch l.instance.Recognize(ev, s) {
		case recognizer.Active:
			active = append(active, l)
		case recognizer.Success:
			completed[l.index] = true
			e.logger.Debug("gesture completed",
				slog.String("gesture", e.gestures[l.index].Name),
				slog.String("event", ev.String()))
		}
	}
	return active
}

// replay rebuilds every gesture and runs ev again. Gestures that already
// completed on ev are re-armed without seeing it a second time.
func (e *Engine) replay(ev event.Event, s event.State, completed []bool) []live {
	fresh := e.freshAll()

	var armed, candidates []live
	for _, l := range fresh {
		if completed[l.index] {
			armed = append(armed, l)
			continue
		}
		candidates = append(candidates, l)
	}

	active := e.pass(candidates, ev, s, completed)
	return mergeByIndex(armed, active)
}

func (e *Engine) freshAll() []live {
	out := make([]live, len(e.gestures))
	for i, g := range e.gestures {
		out[i] = live{index: i, instance: recognizer.Fresh(g.Recognizer)}
	}
	return out
}

// mergeByIndex merges two declaration-ordered lists.
func mergeByIndex(a, b []live) []live {
	out := make([]live, 0, len(a)+len(b))
	for len(a) > 0 && len(b) > 0 {
		if a[0].index < b[0].index {
			out = append(out, a[0])
			a = a[1:]
		} else {
			out = append(out, b[0])
			b = b[1:]
		}
	}
	out = append(out, a...)
	return append(out, b...)
}
