package recognizer

import (
	"fmt"

	"interact/internal/event"
)

// Instance is the live state of one recognizer. It is created from a
// prototype with Fresh and owns every sub-instance below it.
type Instance struct {
	proto Recognizer

	// Sequence
	steps  []*Instance
	cursor int

	// Alternatives
	remaining []*Instance

	// Repeating
	body         *Instance
	interrupt    *Instance
	interrupting bool

	// IgnoreIf, Optional
	inner *Instance
	last  Outcome
}

// Fresh derives an independent live instance from a prototype.
func Fresh(r Recognizer) *Instance {
	in := &Instance{proto: r}
	switch p := r.(type) {
	case Match:
	case Sequence:
		in.steps = freshAll(p.steps)
	case Alternatives:
		in.remaining = freshAll(p.choices)
	case Repeating:
		in.body = Fresh(p.body)
		if p.interrupt != nil {
			in.interrupt = Fresh(p.interrupt)
		}
	case IgnoreIf:
		in.inner = Fresh(p.wrapped)
		in.last = Active
	case Optional:
		in.inner = Fresh(p.wrapped)
	default:
		panic(fmt.Sprintf("recognizer: unknown prototype %T", r))
	}
	return in
}

func freshAll(rs []Recognizer) []*Instance {
	out := make([]*Instance, len(rs))
	for i, r := range rs {
		out[i] = Fresh(r)
	}
	return out
}

// Prototype returns the recognizer this instance was derived from.
func (in *Instance) Prototype() Recognizer {
	return in.proto
}

// Recognize feeds one event to the instance. Each instance is fed an event
// at most once. Handlers of completed recognizers run before it returns.
func (in *Instance) Recognize(e event.Event, s event.State) Outcome {
	switch p := in.proto.(type) {
	case Match:
		if !event.Equal(e, p.target) {
			return Fail
		}
		p.handler.invoke(s)
		return Success

	case Sequence:
		if in.cursor >= len(in.steps) {
			return Fail
		}
		switch in.steps[in.cursor].Recognize(e, s) {
		case Active:
			return Active
		case Success:
			in.cursor++
			if in.cursor < len(in.steps) {
				return Active
			}
			p.handler.invoke(s)
			return Success
		default:
			// A missed step kills the sequence for good.
			in.cursor = len(in.steps)
			return Fail
		}

	case Alternatives:
		var remaining []*Instance
		for _, c := range in.remaining {
			switch c.Recognize(e, s) {
			case Active:
				remaining = append(remaining, c)
			case Success:
				in.remaining = nil
				p.handler.invoke(s)
				return Success
			}
		}
		in.remaining = remaining
		if len(remaining) == 0 {
			return Fail
		}
		return Active

	case Repeating:
		if !in.interrupting {
			switch in.body.Recognize(e, s) {
			case Active:
				return Active
			case Success:
				in.body = Fresh(p.body)
				return Active
			}
			if in.interrupt == nil {
				return Fail
			}
			in.interrupting = true
		}
		out := in.interrupt.Recognize(e, s)
		if out == Success {
			p.handler.invoke(s)
		}
		return out

	case IgnoreIf:
		if p.predicate != nil && p.predicate(e) {
			return in.last
		}
		in.last = in.inner.Recognize(e, s)
		if in.last == Success {
			p.handler.invoke(s)
		}
		return in.last

	case Optional:
		if in.inner.Recognize(e, s) == Active {
			return Active
		}
		p.handler.invoke(s)
		return Success

	default:
		panic(fmt.Sprintf("recognizer: unknown prototype %T", in.proto))
	}
}
