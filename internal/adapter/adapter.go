// Package adapter turns raw input callbacks into gesture events.
//
// The Adapter owns the only writable copy of the UI state. Every callback
// updates that state first and then dispatches exactly one event, so
// handlers always observe the position and scroll delta of the event that
// triggered them.
package adapter

import (
	"sync"

	"interact/internal/event"
)

// Dispatcher consumes events together with the state they were produced under.
type Dispatcher interface {
	Dispatch(ev event.Event, s event.State)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ev event.Event, s event.State)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ev event.Event, s event.State) { f(ev, s) }

// Counts are cumulative input counters.
type Counts struct {
	Dispatched uint64
	Dropped    uint64
}

// Adapter feeds a Dispatcher from low-level input callbacks.
type Adapter struct {
	mu          sync.Mutex
	dispatcher  Dispatcher
	state       event.State
	held        map[int]bool
	buttons     map[event.Button]bool
	scrollScale float64
	keyRepeat   bool
	counts      Counts
	gio         gioState
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithScrollScale multiplies every scroll delta by f before it is stored.
func WithScrollScale(f float64) Option {
	return func(a *Adapter) {
		a.scrollScale = f
	}
}

// WithKeyRepeat controls whether a press of an already held key is
// delivered. When disabled such presses are dropped.
func WithKeyRepeat(enabled bool) Option {
	return func(a *Adapter) {
		a.keyRepeat = enabled
	}
}

// New returns an adapter feeding d.
func New(d Dispatcher, opts ...Option) *Adapter {
	a := &Adapter{
		dispatcher:  d,
		held:        make(map[int]bool),
		buttons:     make(map[event.Button]bool),
		scrollScale: 1.0,
		keyRepeat:   true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Configure applies opts to a running adapter.
func (a *Adapter) Configure(opts ...Option) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, opt := range opts {
		opt(a)
	}
}

// State returns a snapshot of the current state.
func (a *Adapter) State() event.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Counts returns the cumulative counters.
func (a *Adapter) Counts() Counts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts
}

// Held reports whether the key code is currently down.
func (a *Adapter) Held(code int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.held[code]
}

// Pressed reports whether the mouse button is currently down.
func (a *Adapter) Pressed(b event.Button) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buttons[b]
}

// KeyDown reports a key press.
func (a *Adapter) KeyDown(code int) {
	a.mu.Lock()
	if a.held[code] && !a.keyRepeat {
		a.counts.Dropped++
		a.mu.Unlock()
		return
	}
	a.held[code] = true
	a.emit(event.Key{Code: code, Phase: event.Down})
}

// KeyUp reports a key release.
func (a *Adapter) KeyUp(code int) {
	a.mu.Lock()
	delete(a.held, code)
	a.emit(event.Key{Code: code, Phase: event.Up})
}

// ButtonDown reports a mouse button press at a position.
func (a *Adapter) ButtonDown(b event.Button, at event.Point) {
	a.mu.Lock()
	a.state.Pointer = at
	a.buttons[b] = true
	a.emit(event.MouseButton{Button: b, Phase: event.Down})
}

// ButtonUp reports a mouse button release at a position.
func (a *Adapter) ButtonUp(b event.Button, at event.Point) {
	a.mu.Lock()
	a.state.Pointer = at
	delete(a.buttons, b)
	a.emit(event.MouseButton{Button: b, Phase: event.Up})
}

// Move reports pointer motion to a position, with or without buttons held.
func (a *Adapter) Move(at event.Point) {
	a.mu.Lock()
	a.state.Pointer = at
	a.emit(event.MouseMove{})
}

// Scroll reports a wheel movement at a position. The delta is scaled before
// it is stored.
func (a *Adapter) Scroll(at, delta event.Point) {
	a.mu.Lock()
	a.state.Pointer = at
	a.state.Scroll = delta.Scale(a.scrollScale)
	a.emit(event.MouseScroll{})
}

// Inject dispatches a previously recorded event under its recorded state.
// The adapter state is replaced by s.
func (a *Adapter) Inject(ev event.Event, s event.State) {
	a.mu.Lock()
	a.state = s
	switch e := ev.(type) {
	case event.Key:
		if e.Phase == event.Down {
			a.held[e.Code] = true
		} else {
			delete(a.held, e.Code)
		}
	case event.MouseButton:
		if e.Phase == event.Down {
			a.buttons[e.Button] = true
		} else {
			delete(a.buttons, e.Button)
		}
	}
	a.emit(ev)
}

// emit dispatches ev with the current state and releases the lock held by
// the caller. The dispatcher runs unlocked so handlers may query the adapter.
func (a *Adapter) emit(ev event.Event) {
	s := a.state
	a.counts.Dispatched++
	a.mu.Unlock()

	a.dispatcher.Dispatch(ev, s)
}

// ButtonFromCode maps a platform button bitmask value to a button: 2 is
// right, 4 is middle and anything else is left.
func ButtonFromCode(code int) event.Button {
	switch code {
	case 2:
		return event.Right
	case 4:
		return event.Middle
	default:
		return event.Left
	}
}
