package event

import "fmt"

// Point is an opaque 2D coordinate carried as event payload.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p with both coordinates multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// State is a snapshot of the UI state at the moment an event is dispatched.
// The input adapter owns the only writable copy; handlers receive values.
type State struct {
	// Pointer is the current pointer position.
	Pointer Point
	// Scroll is the delta of the most recent scroll event.
	Scroll Point
}
