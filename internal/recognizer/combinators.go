package recognizer

import (
	"interact/internal/event"
)

// KeyDown matches the press of the key with the given code.
func KeyDown(code int) Match {
	return NewMatch(event.Key{Code: code, Phase: event.Down}, nil)
}

// KeyUp matches the release of the key with the given code.
func KeyUp(code int) Match {
	return NewMatch(event.Key{Code: code, Phase: event.Up}, nil)
}

// ButtonDown matches the press of a mouse button.
func ButtonDown(b event.Button) Match {
	return NewMatch(event.MouseButton{Button: b, Phase: event.Down}, nil)
}

// ButtonUp matches the release of a mouse button.
func ButtonUp(b event.Button) Match {
	return NewMatch(event.MouseButton{Button: b, Phase: event.Up}, nil)
}

// Move matches one pointer motion.
func Move() Match {
	return NewMatch(event.MouseMove{}, nil)
}

// Scroll matches one wheel movement.
func Scroll() Match {
	return NewMatch(event.MouseScroll{}, nil)
}

// Concat returns a Sequence of its operands. Operands that are themselves
// Sequences without a handler are spliced in rather than nested.
func Concat(a, b Recognizer, more ...Recognizer) Recognizer {
	var steps []Recognizer
	for _, r := range append([]Recognizer{a, b}, more...) {
		if s, ok := r.(Sequence); ok && s.handler == nil {
			steps = append(steps, s.steps...)
			continue
		}
		steps = append(steps, r)
	}
	return Sequence{steps: steps}
}

// Either returns Alternatives over its operands, in priority order.
func Either(a, b Recognizer, more ...Recognizer) Recognizer {
	choices := append([]Recognizer{a, b}, more...)
	return Alternatives{choices: choices}
}

// Repeat repeats r for as long as it keeps matching.
func Repeat(r Recognizer) Recognizer {
	return Repeating{body: r}
}

// RepeatUntil repeats r; the first event r rejects is handed to until.
func RepeatUntil(r, until Recognizer) Recognizer {
	return Repeating{body: r, interrupt: until}
}

// WithHandler returns a copy of r whose top-level handler is h.
func WithHandler(r Recognizer, h Handler) Recognizer {
	return r.withHandler(h)
}

// Ignore returns r with events matching p hidden from it.
func Ignore(p Predicate, r Recognizer) Recognizer {
	return IgnoreIf{predicate: p, wrapped: r}
}

// IgnoreKeyUp hides every key release from r. This is the usual wrapper
// for key combos where only the presses matter.
func IgnoreKeyUp(r Recognizer) Recognizer {
	return Ignore(event.IsKeyUp, r)
}

// Maybe makes r optional.
func Maybe(r Recognizer) Recognizer {
	return Optional{wrapped: r}
}

// KeySequence matches its steps in order while ignoring key releases.
// A single step is allowed.
func KeySequence(first Recognizer, rest ...Recognizer) Recognizer {
	if len(rest) == 0 {
		return IgnoreKeyUp(Sequence{steps: []Recognizer{first}})
	}
	return IgnoreKeyUp(Concat(first, rest[0], rest[1:]...))
}

// Chord matches: press of key code (running arm), then body while the key is
// held, then the release of the key. Releases of other keys are invisible to
// body, so it keeps running through unrelated key chatter.
//
// When body is a Repeating without an interrupt, the release of the key
// becomes its interrupt: the repetition has no other way to end.
func Chord(code int, arm Handler, body Recognizer) Recognizer {
	others := func(e event.Event) bool {
		return event.IsKeyUpExcept(e, code)
	}
	press := NewMatch(event.Key{Code: code, Phase: event.Down}, arm)

	if r, ok := body.(Repeating); ok && r.interrupt == nil {
		r.interrupt = KeyUp(code)
		return Sequence{steps: []Recognizer{press, Ignore(others, r)}}
	}
	return Sequence{steps: []Recognizer{press, Ignore(others, body), KeyUp(code)}}
}
