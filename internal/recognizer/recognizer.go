// Package recognizer implements the gesture recognizer algebra.
//
// A Recognizer is an immutable prototype describing a pattern over input
// events. Recognition happens on an Instance, a private tree of live state
// derived from a prototype with Fresh. Prototypes can be shared freely
// between composites and engines; instances are never shared.
//
// The variants form a closed set:
//
//   - Match: a single event
//   - Sequence: steps in order
//   - Alternatives: the first candidate to succeed
//   - Repeating: a body repeated, optionally ended by an interrupt
//   - IgnoreIf: a wrapped recognizer that does not see some events
//   - Optional: a wrapped recognizer that always ends in Success
package recognizer

import (
	"errors"
	"fmt"
	"strings"

	"interact/internal/event"
)

var (
	// ErrEmptySequence is returned when a Sequence is built without steps.
	ErrEmptySequence = errors.New("recognizer: sequence needs at least one step")

	// ErrNoAlternatives is returned when Alternatives are built without candidates.
	ErrNoAlternatives = errors.New("recognizer: alternatives need at least one candidate")
)

// Handler is invoked when a recognizer completes. It receives a snapshot of
// the UI state taken when the completing event was dispatched.
type Handler func(event.State)

func (h Handler) invoke(s event.State) {
	if h != nil {
		h(s)
	}
}

// Predicate selects events.
type Predicate func(event.Event) bool

// Outcome is the result of feeding one event to a live instance.
type Outcome uint8

const (
	// Active means the pattern is undecided and the instance stays alive.
	Active Outcome = iota
	// Success means the pattern completed on this event.
	Success
	// Fail means the event is not part of the pattern.
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Active:
		return "active"
	case Success:
		return "success"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Recognizer is a gesture prototype. The set of implementations is closed.
type Recognizer interface {
	// Handler returns the top-level completion handler, possibly nil.
	Handler() Handler
	// String renders the prototype in pattern syntax.
	String() string

	withHandler(Handler) Recognizer
}

// Match succeeds on exactly one event equal to its target.
type Match struct {
	target  event.Event
	handler Handler
}

// Sequence succeeds once each of its steps has succeeded in order.
type Sequence struct {
	steps   []Recognizer
	handler Handler
}

// Alternatives succeeds with the first candidate that succeeds.
type Alternatives struct {
	choices []Recognizer
	handler Handler
}

// Repeating feeds events to fresh copies of its body for as long as the body
// keeps matching. With an interrupt, the first event the body rejects is
// handed to the interrupt, which decides the final outcome.
type Repeating struct {
	body      Recognizer
	interrupt Recognizer
	handler   Handler
}

// IgnoreIf hides events selected by its predicate from the wrapped recognizer.
type IgnoreIf struct {
	predicate Predicate
	wrapped   Recognizer
	handler   Handler
}

// Optional reports Success as soon as its wrapped recognizer stops being
// Active, whether it matched or not.
type Optional struct {
	wrapped Recognizer
	handler Handler
}

// NewMatch returns a recognizer for the single event target.
func NewMatch(target event.Event, h Handler) Match {
	return Match{target: target, handler: h}
}

// NewSequence returns a recognizer for steps in order.
func NewSequence(h Handler, steps ...Recognizer) (Sequence, error) {
	if len(steps) == 0 {
		return Sequence{}, ErrEmptySequence
	}
	if err := checkOperands(steps); err != nil {
		return Sequence{}, err
	}
	return Sequence{steps: cloneList(steps), handler: h}, nil
}

// NewAlternatives returns a recognizer for the first of choices to succeed.
// Earlier choices win ties.
func NewAlternatives(h Handler, choices ...Recognizer) (Alternatives, error) {
	if len(choices) == 0 {
		return Alternatives{}, ErrNoAlternatives
	}
	if err := checkOperands(choices); err != nil {
		return Alternatives{}, err
	}
	return Alternatives{choices: cloneList(choices), handler: h}, nil
}

// NewRepeating returns a recognizer repeating body. interrupt may be nil.
func NewRepeating(body, interrupt Recognizer, h Handler) Repeating {
	return Repeating{body: body, interrupt: interrupt, handler: h}
}

// NewIgnoreIf returns a recognizer hiding events matching p from wrapped.
func NewIgnoreIf(p Predicate, wrapped Recognizer, h Handler) IgnoreIf {
	return IgnoreIf{predicate: p, wrapped: wrapped, handler: h}
}

// NewOptional returns a recognizer that makes wrapped optional.
func NewOptional(wrapped Recognizer, h Handler) Optional {
	return Optional{wrapped: wrapped, handler: h}
}

func checkOperands(rs []Recognizer) error {
	for i, r := range rs {
		if r == nil {
			return fmt.Errorf("recognizer: operand %d is nil", i)
		}
	}
	return nil
}

func cloneList(rs []Recognizer) []Recognizer {
	out := make([]Recognizer, len(rs))
	copy(out, rs)
	return out
}

// Target returns the event matched.
func (m Match) Target() event.Event { return m.target }

// Steps returns a copy of the sequence steps.
func (s Sequence) Steps() []Recognizer { return cloneList(s.steps) }

// Choices returns a copy of the candidates in priority order.
func (a Alternatives) Choices() []Recognizer { return cloneList(a.choices) }

// Body returns the repeated recognizer.
func (r Repeating) Body() Recognizer { return r.body }

// Interrupt returns the interrupt recognizer, or nil.
func (r Repeating) Interrupt() Recognizer { return r.interrupt }

// Wrapped returns the recognizer behind the predicate.
func (i IgnoreIf) Wrapped() Recognizer { return i.wrapped }

// Wrapped returns the optional recognizer.
func (o Optional) Wrapped() Recognizer { return o.wrapped }

func (m Match) Handler() Handler        { return m.handler }
func (s Sequence) Handler() Handler     { return s.handler }
func (a Alternatives) Handler() Handler { return a.handler }
func (r Repeating) Handler() Handler    { return r.handler }
func (i IgnoreIf) Handler() Handler     { return i.handler }
func (o Optional) Handler() Handler     { return o.handler }

func (m Match) withHandler(h Handler) Recognizer        { m.handler = h; return m }
func (s Sequence) withHandler(h Handler) Recognizer     { s.handler = h; return s }
func (a Alternatives) withHandler(h Handler) Recognizer { a.handler = h; return a }
func (r Repeating) withHandler(h Handler) Recognizer    { r.handler = h; return r }
func (i IgnoreIf) withHandler(h Handler) Recognizer     { i.handler = h; return i }
func (o Optional) withHandler(h Handler) Recognizer     { o.handler = h; return o }

func (m Match) String() string {
	return describe(m.target)
}

func (s Sequence) String() string {
	return "(" + joinStrings(s.steps, " ") + ")"
}

func (a Alternatives) String() string {
	return "(" + joinStrings(a.choices, " | ") + ")"
}

func (r Repeating) String() string {
	if r.interrupt == nil {
		return r.body.String() + "*"
	}
	return "until(" + r.body.String() + ", " + r.interrupt.String() + ")"
}

func (i IgnoreIf) String() string {
	return "ignore(" + i.wrapped.String() + ")"
}

func (o Optional) String() string {
	return o.wrapped.String() + "?"
}

func joinStrings(rs []Recognizer, sep string) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, sep)
}

// describe renders a target event the way the pattern language spells it.
func describe(e event.Event) string {
	switch e := e.(type) {
	case event.Key:
		return fmt.Sprintf("#%d.%s", e.Code, e.Phase)
	case event.MouseButton:
		return fmt.Sprintf("mouse.%s.%s", e.Button, e.Phase)
	case event.MouseMove:
		return "move"
	case event.MouseScroll:
		return "scroll"
	default:
		return "<nil>"
	}
}
