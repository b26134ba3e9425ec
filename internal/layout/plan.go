package layout

import (
	"math"

	"text2png/internal/config"
)

// PlacedLine is one fillText/strokeText call.
type PlacedLine struct {
	Text string
	X    float64
	Y    float64
}

// Plan is everything the painter needs: canvas size in whole pixels, the
// styles to set on the context and where each line goes.
type Plan struct {
	Width  int
	Height int

	Fit Fit

	HorizontalOffset float64
	VerticalOffset   float64

	Font        string
	StrokeWidth float64
	Lines       []PlacedLine
}

// Build runs the metrics, sizing and placement stages for text.
func Build(m Measurer, text string, cfg config.Config) Plan {
	metrics := Collect(m, cfg.Font, text, cfg.LineSpacing)
	fit := FitToConfig(metrics, cfg.Font, cfg)
	return Place(fit, cfg)
}

// Place computes the per-line draw coordinates for a sized layout.
func Place(fit Fit, cfg config.Config) Plan {
	plan := Plan{
		Width:       pixels(fit.Width),
		Height:      pixels(fit.Height),
		Fit:         fit,
		Font:        fit.Font,
		StrokeWidth: cfg.StrokeWidth * fit.ScaleFactor,
		Lines:       make([]PlacedLine, 0, len(fit.Metrics.Lines)),
	}

	m := fit.Metrics
	contentWidth := m.ContentWidth()
	contentHeight := m.ContentHeight()
	lineHeight := m.LineHeight()

	switch cfg.VerticalAlign {
	case config.AlignMiddle:
		plan.VerticalOffset = (fit.AvailableHeight - contentHeight) / 2
	case config.AlignBottom:
		plan.VerticalOffset = fit.AvailableHeight - contentHeight
	}

	switch cfg.TextAlign {
	case config.AlignCenter:
		plan.HorizontalOffset = (fit.AvailableWidth - contentWidth) / 2
	case config.AlignRight, config.AlignEnd:
		plan.HorizontalOffset = fit.AvailableWidth - contentWidth
	}

	left := cfg.Border.Left + cfg.Padding.Left
	offsetY := cfg.Border.Top + cfg.Padding.Top + plan.VerticalOffset
	for _, line := range m.Lines {
		var x float64
		switch cfg.TextAlign {
		case config.AlignLeft, config.AlignStart:
			x = line.Left + left + plan.HorizontalOffset
		case config.AlignRight, config.AlignEnd:
			x = float64(plan.Width) - cfg.Border.Right - cfg.Padding.Right - plan.HorizontalOffset
		case config.AlignCenter:
			x = contentWidth/2 + left + plan.HorizontalOffset
		}

		plan.Lines = append(plan.Lines, PlacedLine{
			Text: line.Text,
			X:    x,
			Y:    m.Max.Ascent + offsetY,
		})
		offsetY += lineHeight
	}
	return plan
}

// pixels rounds a canvas dimension up to whole pixels so partially covered
// ink columns are kept. The epsilon absorbs float noise from the sums.
func pixels(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Ceil(v - 1e-9))
}
