// Package text2png renders multi-line text into PNG images, either at the
// natural size of the text or shrunk to fit a fixed width and height, with
// padding, borders, a background and an optional outline stroke.
package text2png

import (
	"context"
	"log/slog"

	"text2png/internal/config"
	"text2png/internal/image"
	"text2png/internal/layout"
)

type (
	// Options is the partial option set accepted by Render. Unset (nil)
	// fields fall back to their alias, then to the default.
	Options = config.Options
	Output  = config.Output
	// Canvas is the drawing surface returned for OutputCanvas.
	Canvas = image.Canvas
)

const (
	OutputBuffer  = config.OutputBuffer
	OutputStream  = config.OutputStream
	OutputDataURL = config.OutputDataURL
	OutputCanvas  = config.OutputCanvas
)

// Ptr returns a pointer to v, for filling Options literals.
func Ptr[T any](v T) *T {
	return config.Ptr(v)
}

// Render draws text per opts and returns it in the representation named by
// opts.Output (buffer when unset).
func Render(text string, opts Options) (*Result, error) {
	return RenderContext(context.Background(), text, opts)
}

// RenderContext is Render with a context for fetching remote fonts.
func RenderContext(ctx context.Context, text string, opts Options) (*Result, error) {
	cfg, c, plan, err := prepare(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	c.Paint(plan, cfg)

	return format(c, cfg.Output)
}

// Size reports the canvas size Render would produce for text and opts
// without painting it. Local fonts are registered as in Render.
func Size(ctx context.Context, text string, opts Options) (width, height int, err error) {
	_, _, plan, err := prepare(ctx, text, opts)
	if err != nil {
		return 0, 0, err
	}
	return plan.Width, plan.Height, nil
}

// prepare resolves opts and lays text out on an unallocated canvas.
func prepare(ctx context.Context, text string, opts Options) (config.Config, *image.Canvas, layout.Plan, error) {
	cfg := config.Resolve(opts)
	if err := registerLocalFont(ctx, cfg); err != nil {
		return cfg, nil, layout.Plan{}, err
	}

	c := image.NewCanvas(0, 0)
	plan := layout.Build(c, text, cfg)
	slog.Debug("text layout",
		"lines", len(plan.Lines),
		"width", plan.Width,
		"height", plan.Height,
		"scale", plan.Fit.ScaleFactor,
		"font", plan.Font,
	)
	return cfg, c, plan, nil
}
