// Package paint is a small drawing model driven entirely by gesture actions:
// lines and circles drawn under the pointer, a pannable view and an HSV
// background color.
package paint

import (
	"image/color"
	"math"
	"strconv"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"interact/internal/event"
	"interact/internal/pattern"
)

const (
	hueStep = 18.0 // degrees
	keyStep = 0.1
	// scrollDivisor turns scroll deltas into saturation and value changes.
	scrollDivisor = 100.0

	defaultWidth = 2.0
	minWidth     = 1.0
)

// Line is a straight segment.
type Line struct {
	From, To event.Point
}

// Circle is an outline around Center.
type Circle struct {
	Center event.Point
	Radius float64
}

// Snapshot is a copy of the canvas contents.
type Snapshot struct {
	Lines      []Line
	Circles    []Circle
	Background color.NRGBA
	Width      float64
	Version    uint64
}

// Canvas holds the drawing. It is safe for concurrent use.
type Canvas struct {
	mu      sync.Mutex
	lines   []Line
	circles []Circle

	hue, sat, val float64
	width         float64

	// number is the line width being typed, or nil.
	number *int

	anchor  event.Point
	version uint64
	onQuit  func()
}

// New returns an empty canvas with a red background. onQuit, if not nil,
// runs for the quit action.
func New(onQuit func()) *Canvas {
	return &Canvas{
		hue:    0,
		sat:    1,
		val:    1,
		width:  defaultWidth,
		onQuit: onQuit,
	}
}

// Actions returns the named handlers the canvas provides. digit_0 through
// digit_9 append to the typed number, line_width applies it.
func (c *Canvas) Actions() pattern.Actions {
	actions := pattern.Actions{
		"quit":              c.quit,
		"clear":             c.locked(c.clear),
		"begin_line":        c.locked(c.beginLine),
		"update_line":       c.locked(c.updateLine),
		"begin_circle":      c.locked(c.beginCircle),
		"update_circle":     c.locked(c.updateCircle),
		"hue":               c.locked(func(event.State) { c.shiftHue(hueStep) }),
		"value_scroll":      c.locked(func(s event.State) { c.val = clamp01(c.val + s.Scroll.Y/scrollDivisor) }),
		"value_up":          c.locked(func(event.State) { c.val = clamp01(c.val + keyStep) }),
		"value_down":        c.locked(func(event.State) { c.val = clamp01(c.val - keyStep) }),
		"saturation_scroll": c.locked(func(s event.State) { c.sat = clamp01(c.sat + s.Scroll.Y/scrollDivisor) }),
		"saturation_up":     c.locked(func(event.State) { c.sat = clamp01(c.sat + keyStep) }),
		"saturation_down":   c.locked(func(event.State) { c.sat = clamp01(c.sat - keyStep) }),
		"pan_begin":         c.locked(c.panBegin),
		"pan":               c.locked(c.pan),
		"line_width":        c.locked(c.lineWidth),
		"reset_number":      c.locked(func(event.State) { c.number = nil }),
	}
	for d := 0; d <= 9; d++ {
		d := d
		actions["digit_"+strconv.Itoa(d)] = c.locked(func(event.State) { c.pushDigit(d) })
	}
	return actions
}

// Snapshot copies the current contents.
func (c *Canvas) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, g, b := colorful.Hsv(c.hue, c.sat, c.val).Clamped().RGB255()
	return Snapshot{
		Lines:      append([]Line(nil), c.lines...),
		Circles:    append([]Circle(nil), c.circles...),
		Background: color.NRGBA{R: r, G: g, B: b, A: 0xff},
		Width:      c.width,
		Version:    c.version,
	}
}

// HSV returns the background as hue in degrees, saturation and value.
func (c *Canvas) HSV() (h, s, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hue, c.sat, c.val
}

func (c *Canvas) locked(fn func(event.State)) func(event.State) {
	return func(s event.State) {
		c.mu.Lock()
		defer c.mu.Unlock()
		fn(s)
		c.version++
	}
}

func (c *Canvas) quit(event.State) {
	if c.onQuit != nil {
		c.onQuit()
	}
}

func (c *Canvas) clear(event.State) {
	c.lines = nil
	c.circles = nil
}

func (c *Canvas) beginLine(s event.State) {
	c.lines = append(c.lines, Line{From: s.Pointer, To: s.Pointer})
}

func (c *Canvas) updateLine(s event.State) {
	if len(c.lines) == 0 {
		return
	}
	c.lines[len(c.lines)-1].To = s.Pointer
}

func (c *Canvas) beginCircle(s event.State) {
	c.circles = append(c.circles, Circle{Center: s.Pointer, Radius: 1})
}

func (c *Canvas) updateCircle(s event.State) {
	if len(c.circles) == 0 {
		return
	}
	last := &c.circles[len(c.circles)-1]
	d := s.Pointer.Sub(last.Center)
	last.Radius = math.Hypot(d.X, d.Y)
}

func (c *Canvas) shiftHue(deg float64) {
	c.hue = math.Mod(c.hue+deg, 360)
	if c.hue < 0 {
		c.hue += 360
	}
}

func (c *Canvas) panBegin(s event.State) {
	c.anchor = s.Pointer
}

// pan moves every shape by the pointer travel since the last pan step.
func (c *Canvas) pan(s event.State) {
	d := s.Pointer.Sub(c.anchor)
	for i := range c.lines {
		c.lines[i].From = c.lines[i].From.Add(d)
		c.lines[i].To = c.lines[i].To.Add(d)
	}
	for i := range c.circles {
		c.circles[i].Center = c.circles[i].Center.Add(d)
	}
	c.anchor = s.Pointer
}

func (c *Canvas) pushDigit(d int) {
	if c.number == nil {
		c.number = &d
		return
	}
	*c.number = *c.number*10 + d
}

func (c *Canvas) lineWidth(event.State) {
	if c.number == nil {
		return
	}
	c.width = math.Max(minWidth, float64(*c.number))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
