package theme

import (
	"image/color"
	"runtime"

	"gioui.org/unit"
	"gioui.org/widget/material"
)

// Palette defines the colors drawn over the canvas background.
type Palette struct {
	Stroke    color.NRGBA
	Panel     color.NRGBA
	Text      color.NRGBA
	TextMuted color.NRGBA
	Active    color.NRGBA
	Error     color.NRGBA
}

// Config defines the drawing metrics.
type Config struct {
	CornerRadius unit.Dp
	Padding      unit.Dp
	FontBody     unit.Sp
	FontCaption  unit.Sp
}

// Theme wraps the material theme with canvas styling.
type Theme struct {
	*material.Theme
	Palette Palette
	Config  Config
}

// NewTheme creates a theme for the current OS.
func NewTheme(mtheme *material.Theme) *Theme {
	t := &Theme{
		Theme: mtheme,
		Palette: Palette{
			Stroke:    color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
			Panel:     color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xC0},
			Text:      color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
			TextMuted: color.NRGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF},
			Active:    color.NRGBA{R: 0x6B, G: 0xBC, B: 0x0F, A: 0xFF},
			Error:     color.NRGBA{R: 0xE8, G: 0x11, B: 0x23, A: 0xFF},
		},
		Config: Config{
			CornerRadius: unit.Dp(4),
			Padding:      unit.Dp(8),
			FontBody:     unit.Sp(14),
			FontCaption:  unit.Sp(12),
		},
	}

	if runtime.GOOS == "darwin" {
		// macOS system text is slightly smaller and corners rounder.
		t.Config.CornerRadius = unit.Dp(10)
		t.Config.FontBody = unit.Sp(13)
		t.Config.FontCaption = unit.Sp(11)
	}

	return t
}
