package config

import "math"

const (
	DefaultFont          = "30px sans-serif"
	DefaultTextColor     = "black"
	DefaultStrokeColor   = "white"
	DefaultBorderColor   = "black"
	DefaultMinFontSize   = 8.0
	DefaultTextAlign     = AlignLeft
	DefaultVerticalAlign = AlignMiddle
	DefaultOutput        = OutputBuffer
)

// Resolve folds aliases and defaults into a Config. Every field is taken
// from the first defined candidate, in the order listed; the last argument
// of each firstDefined call is the hard default.
func Resolve(o Options) Config {
	cfg := Config{
		Font:          firstDefined(DefaultFont, o.Font),
		TextAlign:     TextAlign(firstDefined(string(DefaultTextAlign), o.TextAlign)),
		VerticalAlign: VerticalAlign(firstDefined(string(DefaultVerticalAlign), o.VerticalAlign)),

		TextColor:       firstDefined(DefaultTextColor, o.TextColor, o.Color),
		BackgroundColor: firstDefined("", o.BackgroundColor, o.BgColor),

		LineSpacing: dimension(firstDefined(0, o.LineSpacing)),
		StrokeWidth: dimension(firstDefined(0, o.StrokeWidth)),
		StrokeColor: firstDefined(DefaultStrokeColor, o.StrokeColor),

		Padding: Sides{
			Left:   dimension(firstDefined(0, o.PaddingLeft, o.Padding)),
			Top:    dimension(firstDefined(0, o.PaddingTop, o.Padding)),
			Right:  dimension(firstDefined(0, o.PaddingRight, o.Padding)),
			Bottom: dimension(firstDefined(0, o.PaddingBottom, o.Padding)),
		},
		Border: Sides{
			Left:   dimension(firstDefined(0, o.BorderLeftWidth, o.BorderWidth)),
			Top:    dimension(firstDefined(0, o.BorderTopWidth, o.BorderWidth)),
			Right:  dimension(firstDefined(0, o.BorderRightWidth, o.BorderWidth)),
			Bottom: dimension(firstDefined(0, o.BorderBottomWidth, o.BorderWidth)),
		},
		BorderColor: firstDefined(DefaultBorderColor, o.BorderColor),

		LocalFontPath:   firstDefined("", o.LocalFontPath),
		LocalFontName:   firstDefined("", o.LocalFontName),
		LocalFontWeight: firstDefined("", o.LocalFontWeight),
		LocalFontStyle:  firstDefined("", o.LocalFontStyle),

		Output:                Output(firstDefined(string(DefaultOutput), o.Output)),
		ImageSmoothingEnabled: firstDefined(false, o.ImageSmoothingEnabled),

		Width:       optionalDimension(o.Width),
		Height:      optionalDimension(o.Height),
		MinFontSize: dimension(firstDefined(DefaultMinFontSize, o.MinFontSize)),
	}
	return cfg
}

// firstDefined returns the value behind the first non-nil candidate, or
// fallback when none is set.
func firstDefined[T any](fallback T, candidates ...*T) T {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return fallback
}

// dimension clamps negative and NaN sizes to zero.
func dimension(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func optionalDimension(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) {
		return nil
	}
	d := dimension(*v)
	return &d
}
