package adapter

import (
	"unicode/utf8"

	gioevent "gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"interact/internal/event"
	"interact/internal/keys"
)

// gioState is what the gio translation needs to remember between events.
type gioState struct {
	buttons pointer.Buttons
}

// gioKeys maps gio key names that are not plain characters.
var gioKeys = map[key.Name]int{
	key.NameLeftArrow:      keys.Left,
	key.NameRightArrow:     keys.Right,
	key.NameUpArrow:        keys.Up,
	key.NameDownArrow:      keys.Down,
	key.NameReturn:         keys.Enter,
	key.NameEnter:          keys.NumEnter,
	key.NameEscape:         keys.Escape,
	key.NameHome:           keys.Home,
	key.NameEnd:            keys.End,
	key.NameDeleteBackward: keys.Backspace,
	key.NameDeleteForward:  keys.Delete,
	key.NamePageUp:         keys.PageUp,
	key.NamePageDown:       keys.PageDown,
	key.NameTab:            keys.Tab,
	key.NameSpace:          keys.Space,
	key.NameCtrl:           keys.LCtrl,
	key.NameShift:          keys.LShift,
	key.NameAlt:            keys.LAlt,
	key.NameSuper:          keys.LWindows,
	key.NameCommand:        keys.LCommand,
	key.NameF1:             keys.F1,
	key.NameF2:             keys.F2,
	key.NameF3:             keys.F3,
	key.NameF4:             keys.F4,
	key.NameF5:             keys.F5,
	key.NameF6:             keys.F6,
	key.NameF7:             keys.F7,
	key.NameF8:             keys.F8,
	key.NameF9:             keys.F9,
	key.NameF10:            keys.F10,
	key.NameF11:            keys.F11,
	key.NameF12:            keys.F12,
}

// gioButtons lists the gio buttons in the order they are reported.
var gioButtons = []struct {
	mask   pointer.Buttons
	button event.Button
}{
	{pointer.ButtonPrimary, event.Left},
	{pointer.ButtonSecondary, event.Right},
	{pointer.ButtonTertiary, event.Middle},
}

// GioKeyCode returns the key code for a gio key name.
func GioKeyCode(name key.Name) (int, bool) {
	if code, ok := gioKeys[name]; ok {
		return code, true
	}
	if code, ok := keys.Lookup(string(name)); ok {
		return code, true
	}
	// Printable ASCII keysyms equal their lowercase character.
	r, size := utf8.DecodeRuneInString(string(name))
	if size == len(name) && r > ' ' && r < utf8.RuneSelf {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return int(r), true
	}
	return 0, false
}

// FromGio translates a gio input event and feeds it through the adapter.
// It reports whether the event was consumed.
//
// Button presses and releases are derived by comparing the reported button
// mask with the previous one, so a single gio event may produce several
// button events. A press or release without a button change, as touch
// input reports it, counts as the left button.
func (a *Adapter) FromGio(ev gioevent.Event) bool {
	switch e := ev.(type) {
	case key.Event:
		code, ok := GioKeyCode(e.Name)
		if !ok {
			return false
		}
		if e.State == key.Press {
			a.KeyDown(code)
		} else {
			a.KeyUp(code)
		}
		return true

	case pointer.Event:
		at := event.Point{X: float64(e.Position.X), Y: float64(e.Position.Y)}
		switch e.Kind {
		case pointer.Press, pointer.Release:
			a.mu.Lock()
			prev := a.gio.buttons
			a.gio.buttons = e.Buttons
			a.mu.Unlock()

			changed := false
			for _, gb := range gioButtons {
				was, is := prev.Contain(gb.mask), e.Buttons.Contain(gb.mask)
				switch {
				case is && !was:
					a.ButtonDown(gb.button, at)
					changed = true
				case was && !is:
					a.ButtonUp(gb.button, at)
					changed = true
				}
			}
			if !changed {
				if e.Kind == pointer.Press {
					a.ButtonDown(event.Left, at)
				} else {
					a.ButtonUp(event.Left, at)
				}
			}
			return true
		case pointer.Move, pointer.Drag:
			a.Move(at)
			return true
		case pointer.Scroll:
			// gio grows Y downwards; positive Y means the wheel moved up.
			a.Scroll(at, event.Point{X: float64(e.Scroll.X), Y: -float64(e.Scroll.Y)})
			return true
		}
	}
	return false
}
