package config

import (
	"errors"
	"fmt"

	"text2png/internal/css"
)

const (
	DefaultMaxCanvasSize = 4096
	DefaultMaxFontSize   = 512
)

// ErrOverLimit is wrapped by every Limits violation.
var ErrOverLimit = errors.New("over limit")

// Limits bound the options accepted from untrusted callers such as bot
// chats. A zero field is unlimited.
type Limits struct {
	// MaxCanvasSize caps width, height and every length that adds to them,
	// in pixels.
	MaxCanvasSize float64
	MaxFontSize   float64
}

func DefaultLimits() Limits {
	return Limits{MaxCanvasSize: DefaultMaxCanvasSize, MaxFontSize: DefaultMaxFontSize}
}

// Check returns an error wrapping ErrOverLimit for the first option of o
// that exceeds l. Fonts that do not parse are left to the renderer, which
// ignores them.
func (l Limits) Check(o Options) error {
	if l.MaxFontSize > 0 && o.Font != nil {
		if f, err := css.ParseFont(*o.Font); err == nil && f.Size > l.MaxFontSize {
			return fmt.Errorf("%w: font size %gpx exceeds %gpx", ErrOverLimit, f.Size, l.MaxFontSize)
		}
	}
	if l.MaxCanvasSize <= 0 {
		return nil
	}

	lengths := []struct {
		name string
		v    *float64
	}{
		{"width", o.Width},
		{"height", o.Height},
		{"lineSpacing", o.LineSpacing},
		{"strokeWidth", o.StrokeWidth},
		{"padding", o.Padding},
		{"paddingLeft", o.PaddingLeft},
		{"paddingTop", o.PaddingTop},
		{"paddingRight", o.PaddingRight},
		{"paddingBottom", o.PaddingBottom},
		{"borderWidth", o.BorderWidth},
		{"borderLeftWidth", o.BorderLeftWidth},
		{"borderTopWidth", o.BorderTopWidth},
		{"borderRightWidth", o.BorderRightWidth},
		{"borderBottomWidth", o.BorderBottomWidth},
	}
	for _, f := range lengths {
		if f.v != nil && *f.v > l.MaxCanvasSize {
			return fmt.Errorf("%w: %s %g exceeds %gpx", ErrOverLimit, f.name, *f.v, l.MaxCanvasSize)
		}
	}
	return nil
}

// CheckCanvas reports whether a w×h canvas fits MaxCanvasSize.
func (l Limits) CheckCanvas(w, h int) error {
	if l.MaxCanvasSize <= 0 {
		return nil
	}
	if float64(w) > l.MaxCanvasSize || float64(h) > l.MaxCanvasSize {
		return fmt.Errorf("%w: canvas %dx%d exceeds %gpx", ErrOverLimit, w, h, l.MaxCanvasSize)
	}
	return nil
}

// Shareable returns o without the keys that reach outside the render: the
// local font file, its registered family and face, and the output mode.
// Options from untrusted sources go through it before use.
func (o Options) Shareable() Options {
	o.LocalFontPath = nil
	o.LocalFontName = nil
	o.LocalFontWeight = nil
	o.LocalFontStyle = nil
	o.Output = nil
	return o
}
