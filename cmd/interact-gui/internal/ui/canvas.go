package ui

import (
	"fmt"
	"image"
	"strings"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"interact/cmd/interact-gui/internal/theme"
	ipaint "interact/internal/paint"
)

// Status is the text shown in the status bar.
type Status struct {
	Live      []string
	Completed []string
	Err       error
}

// Canvas renders a paint snapshot and collects the window input.
type Canvas struct {
	theme *theme.Theme
}

// NewCanvas creates a canvas view.
func NewCanvas(t *theme.Theme) *Canvas {
	return &Canvas{theme: t}
}

// Events returns the pending input events for the canvas. Call it before
// Layout in each frame.
func (c *Canvas) Events(gtx layout.Context) []event.Event {
	var events []event.Event
	for {
		ev, ok := gtx.Event(
			key.Filter{Optional: key.ModCtrl | key.ModCommand | key.ModShift | key.ModAlt | key.ModSuper},
			pointer.Filter{
				Target:  c,
				Kinds:   pointer.Press | pointer.Release | pointer.Move | pointer.Drag | pointer.Scroll,
				ScrollX: pointer.ScrollRange{Min: -1000, Max: 1000},
				ScrollY: pointer.ScrollRange{Min: -1000, Max: 1000},
			},
		)
		if !ok {
			break
		}
		events = append(events, ev)
	}
	return events
}

// Layout renders the canvas.
func (c *Canvas) Layout(gtx layout.Context, snap ipaint.Snapshot, status Status) layout.Dimensions {
	paint.Fill(gtx.Ops, snap.Background)

	area := clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops)
	event.Op(gtx.Ops, c)
	area.Pop()

	width := float32(gtx.Dp(unit.Dp(snap.Width)))
	for _, l := range snap.Lines {
		var p clip.Path
		p.Begin(gtx.Ops)
		p.MoveTo(f32.Pt(float32(l.From.X), float32(l.From.Y)))
		p.LineTo(f32.Pt(float32(l.To.X), float32(l.To.Y)))
		paint.FillShape(gtx.Ops, c.theme.Palette.Stroke, clip.Stroke{Path: p.End(), Width: width}.Op())
	}
	for _, circle := range snap.Circles {
		r := int(circle.Radius)
		cx, cy := int(circle.Center.X), int(circle.Center.Y)
		bounds := image.Rect(cx-r, cy-r, cx+r, cy+r)
		paint.FillShape(gtx.Ops, c.theme.Palette.Stroke,
			clip.Stroke{Path: clip.Ellipse(bounds).Path(gtx.Ops), Width: width}.Op())
	}

	return layout.S.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return c.layoutStatus(gtx, status)
	})
}

func (c *Canvas) layoutStatus(gtx layout.Context, status Status) layout.Dimensions {
	text := "idle"
	color := c.theme.Palette.TextMuted
	switch {
	case status.Err != nil:
		text = status.Err.Error()
		color = c.theme.Palette.Error
	case len(status.Live) > 0:
		text = "in progress: " + strings.Join(status.Live, ", ")
		color = c.theme.Palette.Active
	}
	if len(status.Completed) > 0 {
		text = fmt.Sprintf("%s  |  fired: %s", text, strings.Join(status.Completed, ", "))
	}

	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	macro := op.Record(gtx.Ops)
	dims := layout.UniformInset(c.theme.Config.Padding).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		l := material.Body2(c.theme.Theme, text)
		l.TextSize = c.theme.Config.FontCaption
		l.Color = color
		return l.Layout(gtx)
	})
	call := macro.Stop()

	rect := clip.UniformRRect(image.Rectangle{Max: dims.Size}, gtx.Dp(c.theme.Config.CornerRadius)).Op(gtx.Ops)
	paint.FillShape(gtx.Ops, c.theme.Palette.Panel, rect)
	call.Add(gtx.Ops)
	return dims
}
