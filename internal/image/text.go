package image

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"text2png/internal/layout"
)

func (c *Canvas) ppem() fixed.Int26_6 {
	return fixed.Int26_6(math.Round(c.font.Size * 64))
}

// MeasureText reports the advance width and ink box of text under the
// active font. Coordinates are relative to the origin fillText would use
// with left alignment, whatever the current alignment is; y grows down.
func (c *Canvas) MeasureText(text string) layout.TextMetrics {
	face, err := opentype.NewFace(c.face, &opentype.FaceOptions{
		Size:    c.font.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return layout.TextMetrics{}
	}
	defer face.Close()

	bounds, advance := font.BoundString(face, text)
	return layout.TextMetrics{
		Width: fromFixed(advance),
		MinX:  fromFixed(bounds.Min.X),
		MaxX:  fromFixed(bounds.Max.X),
		MinY:  fromFixed(bounds.Min.Y),
		MaxY:  fromFixed(bounds.Max.Y),
	}
}

// FillText fills the glyph outlines of text with the fill style. (x, y) is
// the baseline anchor interpreted per the text alignment.
func (c *Canvas) FillText(text string, x, y float64) {
	if !c.textPath(text, x, y) {
		return
	}
	c.dc.SetColor(c.fill)
	c.dc.Fill()
}

// StrokeText outlines the glyphs of text with the stroke style and width.
func (c *Canvas) StrokeText(text string, x, y float64) {
	if !c.textPath(text, x, y) {
		return
	}
	c.dc.SetColor(c.stroke)
	c.dc.SetLineWidth(c.lineWidth * float64(c.factor))
	c.dc.Stroke()
}

// textPath appends the outlines of text to the current gg path and reports
// whether anything was added.
func (c *Canvas) textPath(text string, x, y float64) bool {
	c.dc.ClearPath()

	ppem := c.ppem()
	glyphs, advance := c.shape(text, ppem)
	if len(glyphs) == 0 {
		return false
	}
	x += c.alignShift(advance)

	drawn := false
	for _, g := range glyphs {
		segs, err := c.face.LoadGlyph(&c.buf, g.index, ppem, nil)
		if err != nil {
			continue
		}
		ox := x + g.x
		open := false
		for _, s := range segs {
			a := s.Args
			switch s.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					c.dc.ClosePath()
				}
				c.dc.MoveTo(ox+fromFixed(a[0].X), y+fromFixed(a[0].Y))
				open = true
			case sfnt.SegmentOpLineTo:
				c.dc.LineTo(ox+fromFixed(a[0].X), y+fromFixed(a[0].Y))
			case sfnt.SegmentOpQuadTo:
				c.dc.QuadraticTo(
					ox+fromFixed(a[0].X), y+fromFixed(a[0].Y),
					ox+fromFixed(a[1].X), y+fromFixed(a[1].Y),
				)
			case sfnt.SegmentOpCubeTo:
				c.dc.CubicTo(
					ox+fromFixed(a[0].X), y+fromFixed(a[0].Y),
					ox+fromFixed(a[1].X), y+fromFixed(a[1].Y),
					ox+fromFixed(a[2].X), y+fromFixed(a[2].Y),
				)
			}
		}
		if open {
			c.dc.ClosePath()
			drawn = true
		}
	}
	return drawn
}

type placedGlyph struct {
	index sfnt.GlyphIndex
	x     float64
}

// shape maps runes to glyphs left to right with pair kerning. There is no
// complex shaping: one rune, one glyph.
func (c *Canvas) shape(text string, ppem fixed.Int26_6) ([]placedGlyph, float64) {
	var (
		out  []placedGlyph
		dot  fixed.Int26_6
		prev sfnt.GlyphIndex
	)
	for i, r := range []rune(text) {
		idx, err := c.face.GlyphIndex(&c.buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := c.face.Kern(&c.buf, prev, idx, ppem, font.HintingNone); err == nil {
				dot += k
			}
		}
		out = append(out, placedGlyph{index: idx, x: fromFixed(dot)})
		if adv, err := c.face.GlyphAdvance(&c.buf, idx, ppem, font.HintingNone); err == nil {
			dot += adv
		}
		prev = idx
	}
	return out, fromFixed(dot)
}

// alignShift is the offset from the anchor x to the left edge of the
// advance box.
func (c *Canvas) alignShift(advance float64) float64 {
	switch c.align {
	case "center":
		return -advance / 2
	case "right", "end":
		return -advance
	}
	return 0
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
