// Package script reads and writes input scripts: plain text files that
// describe a stream of input events for headless runs.
//
// One step per line:
//
//	key q down
//	key #65307 up
//	button left down
//	button right up 120 80
//	move 10 20
//	scroll 0 -3
//
// Blank lines and lines starting with '#' are ignored. Key names are those
// of package keys; a button step may carry the pointer position.
package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"interact/internal/event"
	"interact/internal/keys"
)

// Op is the kind of a step.
type Op uint8

const (
	OpKey Op = iota + 1
	OpButton
	OpMove
	OpScroll
)

// Step is one scripted input.
type Step struct {
	// Line is the 1-based source line, zero for generated steps.
	Line int
	Op   Op

	Code   int
	Button event.Button
	Phase  event.Phase

	// At is the pointer position for moves and, when HasAt is set, buttons.
	At    event.Point
	HasAt bool

	// Delta is the scroll amount.
	Delta event.Point
}

// Target receives scripted input. *adapter.Adapter implements it.
type Target interface {
	KeyDown(code int)
	KeyUp(code int)
	ButtonDown(b event.Button, at event.Point)
	ButtonUp(b event.Button, at event.Point)
	Move(at event.Point)
	Scroll(at, delta event.Point)
	State() event.State
}

// LineError reports a malformed line.
type LineError struct {
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("script: line %d: %s", e.Line, e.Msg)
}

// Parse reads a script.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		step, err := parseLine(strings.Fields(text))
		if err != nil {
			return nil, &LineError{Line: line, Msg: err.Error()}
		}
		step.Line = line
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}

// ParseFile reads the script at path.
func ParseFile(path string) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(fields []string) (Step, error) {
	switch fields[0] {
	case "key":
		if len(fields) != 3 {
			return Step{}, fmt.Errorf("usage: key NAME down|up")
		}
		code, ok := keys.Lookup(fields[1])
		if !ok {
			return Step{}, fmt.Errorf("unknown key %q", fields[1])
		}
		phase, err := event.ParsePhase(fields[2])
		if err != nil {
			return Step{}, err
		}
		return Step{Op: OpKey, Code: code, Phase: phase}, nil

	case "button":
		if len(fields) != 3 && len(fields) != 5 {
			return Step{}, fmt.Errorf("usage: button NAME down|up [X Y]")
		}
		b, err := event.ParseButton(fields[1])
		if err != nil {
			return Step{}, err
		}
		phase, err := event.ParsePhase(fields[2])
		if err != nil {
			return Step{}, err
		}
		step := Step{Op: OpButton, Button: b, Phase: phase}
		if len(fields) == 5 {
			step.At, err = parsePoint(fields[3:])
			if err != nil {
				return Step{}, err
			}
			step.HasAt = true
		}
		return step, nil

	case "move":
		if len(fields) != 3 {
			return Step{}, fmt.Errorf("usage: move X Y")
		}
		at, err := parsePoint(fields[1:])
		if err != nil {
			return Step{}, err
		}
		return Step{Op: OpMove, At: at}, nil

	case "scroll":
		if len(fields) != 3 {
			return Step{}, fmt.Errorf("usage: scroll DX DY")
		}
		delta, err := parsePoint(fields[1:])
		if err != nil {
			return Step{}, err
		}
		return Step{Op: OpScroll, Delta: delta}, nil

	default:
		return Step{}, fmt.Errorf("unknown step %q", fields[0])
	}
}

func parsePoint(fields []string) (event.Point, error) {
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return event.Point{}, fmt.Errorf("invalid coordinate %q", fields[0])
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return event.Point{}, fmt.Errorf("invalid coordinate %q", fields[1])
	}
	return event.Point{X: x, Y: y}, nil
}

// Apply feeds steps to t in order. Buttons without a position and scrolls
// happen at the current pointer position.
func Apply(steps []Step, t Target) {
	for _, s := range steps {
		s.apply(t)
	}
}

func (s Step) apply(t Target) {
	switch s.Op {
	case OpKey:
		if s.Phase == event.Down {
			t.KeyDown(s.Code)
		} else {
			t.KeyUp(s.Code)
		}
	case OpButton:
		at := s.At
		if !s.HasAt {
			at = t.State().Pointer
		}
		if s.Phase == event.Down {
			t.ButtonDown(s.Button, at)
		} else {
			t.ButtonUp(s.Button, at)
		}
	case OpMove:
		t.Move(s.At)
	case OpScroll:
		t.Scroll(t.State().Pointer, s.Delta)
	}
}

// FromEvent returns the step that reproduces ev dispatched under s.
func FromEvent(ev event.Event, s event.State) Step {
	switch e := ev.(type) {
	case event.Key:
		return Step{Op: OpKey, Code: e.Code, Phase: e.Phase}
	case event.MouseButton:
		return Step{Op: OpButton, Button: e.Button, Phase: e.Phase, At: s.Pointer, HasAt: true}
	case event.MouseMove:
		return Step{Op: OpMove, At: s.Pointer}
	default:
		return Step{Op: OpScroll, Delta: s.Scroll}
	}
}

// String renders the step in script syntax.
func (s Step) String() string {
	switch s.Op {
	case OpKey:
		return fmt.Sprintf("key %s %s", strings.ToLower(keys.Name(s.Code)), s.Phase)
	case OpButton:
		if s.HasAt {
			return fmt.Sprintf("button %s %s %s", s.Button, s.Phase, formatPoint(s.At))
		}
		return fmt.Sprintf("button %s %s", s.Button, s.Phase)
	case OpMove:
		return "move " + formatPoint(s.At)
	case OpScroll:
		return "scroll " + formatPoint(s.Delta)
	default:
		return fmt.Sprintf("Op(%d)", uint8(s.Op))
	}
}

func formatPoint(p event.Point) string {
	return strconv.FormatFloat(p.X, 'g', -1, 64) + " " + strconv.FormatFloat(p.Y, 'g', -1, 64)
}

// Write renders steps one per line.
func Write(w io.Writer, steps []Step) error {
	bw := bufio.NewWriter(w)
	for _, s := range steps {
		if _, err := fmt.Fprintln(bw, s.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
