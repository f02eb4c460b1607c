// Package event defines the closed set of low-level input events consumed by
// gesture recognizers, and the UI state snapshot handed to gesture handlers.
package event

import (
	"fmt"
)

// Phase is the direction of a key or button transition.
type Phase uint8

const (
	// Down is a press.
	Down Phase = iota
	// Up is a release.
	Up
)

// String returns "down" or "up".
func (p Phase) String() string {
	switch p {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// ParsePhase parses "down" or "up".
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "down":
		return Down, nil
	case "up":
		return Up, nil
	default:
		return Down, fmt.Errorf("unknown phase: %q", s)
	}
}

// Button identifies a mouse button.
type Button uint8

const (
	Left Button = iota
	Middle
	Right
)

// String returns the lowercase button name.
func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Middle:
		return "middle"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Button(%d)", uint8(b))
	}
}

// ParseButton parses "left", "middle" or "right".
func ParseButton(s string) (Button, error) {
	switch s {
	case "left":
		return Left, nil
	case "middle":
		return Middle, nil
	case "right":
		return Right, nil
	default:
		return Left, fmt.Errorf("unknown mouse button: %q", s)
	}
}

// Kind discriminates the event variants.
type Kind uint8

const (
	KindKey Kind = iota + 1
	KindMouseButton
	KindMouseMove
	KindMouseScroll
)

// String returns the variant name used in journals and scripts.
func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindMouseButton:
		return "button"
	case KindMouseMove:
		return "move"
	case KindMouseScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// Event is one of Key, MouseButton, MouseMove or MouseScroll.
//
// Every variant is a comparable struct, so two Events are equal exactly when
// they hold the same variant with the same field values.
type Event interface {
	Kind() Kind
	String() string
	isEvent()
}

// Key is a key press or release. Code is a keysym as listed in package keys.
type Key struct {
	Code  int
	Phase Phase
}

// MouseButton is a mouse button press or release.
type MouseButton struct {
	Button Button
	Phase  Phase
}

// MouseMove reports pointer motion. The position lives in State.
type MouseMove struct{}

// MouseScroll reports a wheel movement. The delta lives in State.
type MouseScroll struct{}

func (Key) Kind() Kind         { return KindKey }
func (MouseButton) Kind() Kind { return KindMouseButton }
func (MouseMove) Kind() Kind   { return KindMouseMove }
func (MouseScroll) Kind() Kind { return KindMouseScroll }

func (Key) isEvent()         {}
func (MouseButton) isEvent() {}
func (MouseMove) isEvent()   {}
func (MouseScroll) isEvent() {}

func (e Key) String() string {
	return fmt.Sprintf("key(%d).%s", e.Code, e.Phase)
}

func (e MouseButton) String() string {
	return fmt.Sprintf("mouse.%s.%s", e.Button, e.Phase)
}

func (MouseMove) String() string   { return "move" }
func (MouseScroll) String() string { return "scroll" }

// Equal reports whether a and b are the same event. Nil never equals anything.
func Equal(a, b Event) bool {
	if a == nil || b == nil {
		return false
	}
	return a == b
}

// IsKeyUp reports whether e is a key release.
func IsKeyUp(e Event) bool {
	k, ok := e.(Key)
	return ok && k.Phase == Up
}

// IsKeyUpExcept reports whether e is a key release of any key other than code.
func IsKeyUpExcept(e Event, code int) bool {
	k, ok := e.(Key)
	return ok && k.Phase == Up && k.Code != code
}
