package image

import (
	"log/slog"

	"text2png/internal/config"
	"text2png/internal/layout"
)

// Paint sizes the canvas to plan and draws it: the border band, the interior
// background, then every line filled and, when the stroke is wider than
// zero, outlined on top.
func (c *Canvas) Paint(plan layout.Plan, cfg config.Config) {
	c.Resize(plan.Width, plan.Height)
	c.SetImageSmoothingEnabled(cfg.ImageSmoothingEnabled)

	w, h := float64(plan.Width), float64(plan.Height)
	b, p := cfg.Border, cfg.Padding
	if b.Any() {
		c.SetFillStyle(cfg.BorderColor)
		c.FillRect(0, 0, w, h)
	}

	ix, iy := b.Left, b.Top
	iw, ih := w-b.Horizontal(), h-b.Vertical()
	switch {
	case cfg.BackgroundColor != "":
		c.SetFillStyle(cfg.BackgroundColor)
		c.FillRect(ix, iy, iw, ih)
	case b.Any():
		c.ClearRect(ix, iy, iw, ih)
	}

	c.SetFont(plan.Font)
	c.SetFillStyle(cfg.TextColor)
	c.SetLineWidth(plan.StrokeWidth)
	c.SetStrokeStyle(cfg.StrokeColor)
	c.SetTextAlign(string(cfg.TextAlign))

	slog.Debug("painting text",
		"width", plan.Width,
		"height", plan.Height,
		"lines", len(plan.Lines),
		"font", plan.Font,
		"scale", plan.Fit.ScaleFactor,
		"padding", p,
	)

	for _, line := range plan.Lines {
		c.FillText(line.Text, line.X, line.Y)
		if plan.StrokeWidth > 0 {
			c.StrokeText(line.Text, line.X, line.Y)
		}
	}
}
