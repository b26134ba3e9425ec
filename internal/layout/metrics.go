// Package layout turns per-line ink measurements into canvas geometry:
// the content box, the natural canvas size, the uniform scale factor for
// fixed-size output, and the draw position of every line.
package layout

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TextMetrics is what the rendering surface reports for one glyph run. The
// ink box is relative to the drawing origin on the baseline; y grows down,
// so MinY is negative for ink above the baseline.
type TextMetrics struct {
	Width float64
	MinX  float64
	MaxX  float64
	MinY  float64
	MaxY  float64
}

// Measurer is the measuring half of the rendering surface.
type Measurer interface {
	SetFont(font string)
	MeasureText(text string) TextMetrics
}

// LineMetrics are the ink extents of one line. Left is how far the ink
// reaches left of the origin.
type LineMetrics struct {
	Text    string
	Left    float64
	Right   float64
	Ascent  float64
	Descent float64
}

// Extents holds the per-block maxima.
type Extents struct {
	Left    float64
	Right   float64
	Ascent  float64
	Descent float64
}

// Metrics aggregates a text block.
type Metrics struct {
	Lines []LineMetrics
	Max   Extents
	// LastDescent is the descent of the last line, which bounds the block
	// at the bottom instead of Max.Descent.
	LastDescent float64
	LineSpacing float64
}

// SplitLines splits text on line feeds. An empty string is one empty line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = norm.NFC.String(strings.TrimSuffix(l, "\r"))
	}
	return lines
}

// Collect measures every line of text under font.
func Collect(m Measurer, font, text string, lineSpacing float64) Metrics {
	lines := SplitLines(text)
	out := Metrics{
		Lines:       make([]LineMetrics, 0, len(lines)),
		LineSpacing: lineSpacing,
	}

	for _, line := range lines {
		m.SetFont(font)
		tm := m.MeasureText(line)

		lm := LineMetrics{
			Text:    line,
			Left:    -tm.MinX,
			Right:   tm.MaxX,
			Ascent:  -tm.MinY,
			Descent: tm.MaxY,
		}
		out.Max.Left = max(out.Max.Left, lm.Left)
		out.Max.Right = max(out.Max.Right, lm.Right)
		out.Max.Ascent = max(out.Max.Ascent, lm.Ascent)
		out.Max.Descent = max(out.Max.Descent, lm.Descent)
		out.LastDescent = lm.Descent

		out.Lines = append(out.Lines, lm)
	}
	return out
}

// LineHeight is the baseline-to-baseline distance.
func (m Metrics) LineHeight() float64 {
	return m.Max.Ascent + m.Max.Descent + m.LineSpacing
}

func (m Metrics) ContentWidth() float64 {
	return m.Max.Left + m.Max.Right
}

// ContentHeight spans from the tallest ascent of the first line to the
// descent of the last line; trailing spacing is not part of the block.
func (m Metrics) ContentHeight() float64 {
	return m.LineHeight()*float64(len(m.Lines)) - m.LineSpacing - (m.Max.Descent - m.LastDescent)
}

// Scale returns a copy with every text-derived length multiplied by f.
func (m Metrics) Scale(f float64) Metrics {
	out := Metrics{
		Lines: make([]LineMetrics, len(m.Lines)),
		Max: Extents{
			Left:    m.Max.Left * f,
			Right:   m.Max.Right * f,
			Ascent:  m.Max.Ascent * f,
			Descent: m.Max.Descent * f,
		},
		LastDescent: m.LastDescent * f,
		LineSpacing: m.LineSpacing * f,
	}
	for i, l := range m.Lines {
		out.Lines[i] = LineMetrics{
			Text:    l.Text,
			Left:    l.Left * f,
			Right:   l.Right * f,
			Ascent:  l.Ascent * f,
			Descent: l.Descent * f,
		}
	}
	return out
}
