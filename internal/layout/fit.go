package layout

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"

	"text2png/internal/config"
)

// DefaultFontSize is assumed when the font string carries no "<n>px" size.
const DefaultFontSize = 30.0

var fontSizeRe = regexp.MustCompile(`(\d+(?:\.\d+)?|\.\d+)px`)

// Fit is the outcome of sizing: the canvas, the interior available for
// text, and the (possibly scaled) font and metrics to draw with.
type Fit struct {
	Width  float64
	Height float64

	AvailableWidth  float64
	AvailableHeight float64

	ScaleFactor float64
	Font        string
	Metrics     Metrics
}

// NaturalSize is the canvas size that fits the content plus padding and
// border exactly.
func NaturalSize(m Metrics, padding, border config.Sides) (float64, float64) {
	w := m.ContentWidth() + border.Horizontal() + padding.Horizontal()
	h := m.ContentHeight() + border.Vertical() + padding.Vertical()
	return w, h
}

// FitToConfig sizes the canvas for cfg. Without a fixed width or height the
// natural size is used and nothing scales. Otherwise the requested axes are
// fixed, the others stay natural, and the text shrinks uniformly (never
// grows) to fit the interior, subject to the MinFontSize floor.
func FitToConfig(m Metrics, font string, cfg config.Config) Fit {
	naturalW, naturalH := NaturalSize(m, cfg.Padding, cfg.Border)
	fit := Fit{
		Width:       naturalW,
		Height:      naturalH,
		ScaleFactor: 1,
		Font:        font,
		Metrics:     m,
	}
	if cfg.Width != nil {
		fit.Width = *cfg.Width
	}
	if cfg.Height != nil {
		fit.Height = *cfg.Height
	}
	fit.AvailableWidth = fit.Width - cfg.Border.Horizontal() - cfg.Padding.Horizontal()
	fit.AvailableHeight = fit.Height - cfg.Border.Vertical() - cfg.Padding.Vertical()

	if !cfg.HasFixedSize() {
		return fit
	}

	scale := math.Min(ratio(fit.AvailableWidth, m.ContentWidth()), ratio(fit.AvailableHeight, m.ContentHeight()))
	if scale >= 1 {
		return fit
	}

	size, ok := FontSize(font)
	if !ok {
		size = DefaultFontSize
	}
	scaled := size * scale
	floor := math.Min(cfg.MinFontSize, size)
	if scaled < floor {
		slog.Debug("font size floor overrides fit", "fit", scaled, "floor", floor)
		scaled = floor
		scale = scaled / size
	}

	fit.ScaleFactor = scale
	fit.Font = WithFontSize(font, scaled)
	fit.Metrics = m.Scale(scale)
	return fit
}

// ratio is available/content, treating empty content as always fitting.
func ratio(available, content float64) float64 {
	if content <= 0 {
		return math.Inf(1)
	}
	return available / content
}

// FontSize extracts the first "<n>px" size from a font string.
func FontSize(font string) (float64, bool) {
	m := fontSizeRe.FindStringSubmatch(font)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// WithFontSize replaces the first "<n>px" size in font. Fonts without a px
// size are returned unchanged.
func WithFontSize(font string, size float64) string {
	loc := fontSizeRe.FindStringIndex(font)
	if loc == nil {
		return font
	}
	return font[:loc[0]] + strconv.FormatFloat(size, 'f', -1, 64) + "px" + font[loc[1]:]
}
