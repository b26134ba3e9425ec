// Package image is the 2D drawing surface text2png renders on. Canvas mirrors
// the subset of the HTML canvas context the renderer needs, backed by a
// fogleman/gg context and the shared font registry.
package image

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"golang.org/x/image/font/sfnt"

	"text2png/internal/css"
	"text2png/internal/fonts"
)

const (
	DefaultFont = "10px sans-serif"

	// supersample is the backing store multiplier while smoothing is on.
	supersample = 2
)

// Canvas is not safe for concurrent use.
type Canvas struct {
	dc     *gg.Context
	width  int
	height int
	factor int

	registry *fonts.Registry
	buf      sfnt.Buffer

	fontDesc  string
	font      css.Font
	face      *sfnt.Font
	fill      color.NRGBA
	stroke    color.NRGBA
	lineWidth float64
	align     string
	smoothing bool
}

// NewCanvas returns a w×h surface using the process-wide font registry.
func NewCanvas(w, h int) *Canvas {
	return NewCanvasWithRegistry(w, h, fonts.Default())
}

func NewCanvasWithRegistry(w, h int, registry *fonts.Registry) *Canvas {
	c := &Canvas{registry: registry}
	c.Resize(w, h)
	return c
}

// Resize replaces the surface with a blank w×h one and resets the drawing
// state, like assigning canvas.width. Sizes below one pixel allocate 1×1.
func (c *Canvas) Resize(w, h int) {
	c.width, c.height = max(w, 1), max(h, 1)
	c.factor = 1
	c.dc = gg.NewContext(c.width, c.height)
	c.dc.SetFillRuleWinding()
	c.dc.SetLineJoin(gg.LineJoinRound)

	c.fill = color.NRGBA{A: 0xff}
	c.stroke = color.NRGBA{A: 0xff}
	c.lineWidth = 1
	c.align = "start"
	c.smoothing = false
	c.setFont(DefaultFont)
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// SetFont sets the active font from a CSS font shorthand. Strings that do
// not parse are ignored and the previous font stays active.
func (c *Canvas) SetFont(desc string) {
	if desc == c.fontDesc {
		return
	}
	if !c.setFont(desc) {
		slog.Warn("ignoring invalid font", "font", desc, "active", c.fontDesc)
	}
}

func (c *Canvas) setFont(desc string) bool {
	f, err := css.ParseFont(desc)
	if err != nil {
		return false
	}
	c.fontDesc = desc
	c.font = f
	c.face = c.registry.Lookup(f)
	return true
}

// Font returns the active font shorthand.
func (c *Canvas) Font() string {
	return c.fontDesc
}

// SetFillStyle and SetStrokeStyle accept any CSS color; invalid values
// leave the current style in place.
func (c *Canvas) SetFillStyle(s string) {
	if col, ok := parseStyle(s); ok {
		c.fill = col
	}
}

func (c *Canvas) SetStrokeStyle(s string) {
	if col, ok := parseStyle(s); ok {
		c.stroke = col
	}
}

func parseStyle(s string) (color.NRGBA, bool) {
	col, err := css.ParseColor(s)
	if err != nil {
		slog.Warn("ignoring invalid color", "color", s, "error", err)
		return color.NRGBA{}, false
	}
	return col, true
}

// SetLineWidth ignores non-positive widths.
func (c *Canvas) SetLineWidth(w float64) {
	if w > 0 {
		c.lineWidth = w
	}
}

func (c *Canvas) SetTextAlign(a string) {
	switch a {
	case "start", "left", "center", "end", "right":
		c.align = a
	}
}

// SetImageSmoothingEnabled switches the backing store between 1× and a
// supersampled one. Existing pixels are resampled onto the new store and
// exports are downscaled with Lanczos3 while smoothing is on.
func (c *Canvas) SetImageSmoothingEnabled(enabled bool) {
	c.smoothing = enabled
	factor := 1
	if enabled {
		factor = supersample
	}
	if factor == c.factor {
		return
	}

	old := c.dc.Image()
	w, h := c.width*factor, c.height*factor
	dc := gg.NewContext(w, h)
	dc.SetFillRuleWinding()
	dc.SetLineJoin(gg.LineJoinRound)
	dc.DrawImage(resize.Resize(uint(w), uint(h), old, resize.Lanczos3), 0, 0)
	dc.Scale(float64(factor), float64(factor))

	c.dc = dc
	c.factor = factor
}

func (c *Canvas) ImageSmoothingEnabled() bool {
	return c.smoothing
}

// FillRect paints a rectangle with the fill style, compositing over what is
// already there.
func (c *Canvas) FillRect(x, y, w, h float64) {
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetColor(c.fill)
	c.dc.Fill()
}

// ClearRect sets every pixel in the rectangle to transparent black.
func (c *Canvas) ClearRect(x, y, w, h float64) {
	rgba, ok := c.dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	f := float64(c.factor)
	r := image.Rect(int(x*f), int(y*f), int((x+w)*f), int((y+h)*f)).Canon()
	draw.Draw(rgba, r, image.Transparent, image.Point{}, draw.Src)
}

// Image returns the surface at its logical size.
func (c *Canvas) Image() image.Image {
	if c.factor == 1 {
		return c.dc.Image()
	}
	return resize.Resize(uint(c.width), uint(c.height), c.dc.Image(), resize.Lanczos3)
}
