package css

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"golang.org/x/image/colornames"
)

var colorFuncParser = participle.MustBuild[colorFuncAST](
	participle.Lexer(cssLexer),
	participle.Elide("Whitespace"),
)

type colorFuncAST struct {
	Name string   `parser:"@Ident '('"`
	Args []string `parser:"@(Size | Number) ( (',' | '/')? @(Size | Number) )* ')'"`
}

// ParseColor parses a CSS color value: a named color, "transparent", a hex
// triplet (#rgb, #rgba, #rrggbb, #rrggbbaa) or an rgb/rgba/hsl/hsla function.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color")
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	lower := strings.ToLower(s)
	if lower == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[lower]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if strings.Contains(lower, "(") {
		return parseFunc(lower)
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(s string) (color.NRGBA, error) {
	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunc(s string) (color.NRGBA, error) {
	ast, err := colorFuncParser.ParseString("", s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	if len(ast.Args) != 3 && len(ast.Args) != 4 {
		return color.NRGBA{}, fmt.Errorf("color %q: want 3 or 4 arguments, got %d", s, len(ast.Args))
	}

	alpha := 1.0
	if len(ast.Args) == 4 {
		alpha, err = fraction(ast.Args[3], 1)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
	}

	var r, g, b float64
	switch ast.Name {
	case "rgb", "rgba":
		if r, err = fraction(ast.Args[0], 255); err == nil {
			if g, err = fraction(ast.Args[1], 255); err == nil {
				b, err = fraction(ast.Args[2], 255)
			}
		}
	case "hsl", "hsla":
		var h, sat, light float64
		if h, err = hue(ast.Args[0]); err == nil {
			if sat, err = fraction(ast.Args[1], 1); err == nil {
				light, err = fraction(ast.Args[2], 1)
			}
		}
		r, g, b = hslToRGB(h, sat, light)
	default:
		return color.NRGBA{}, fmt.Errorf("unknown color function %q", ast.Name)
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}

	return color.NRGBA{R: channel(r), G: channel(g), B: channel(b), A: channel(alpha)}, nil
}

// fraction maps a number (relative to max) or a percentage onto [0, 1].
func fraction(tok string, max float64) (float64, error) {
	num, unit := splitUnit(tok)
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", tok)
	}
	switch unit {
	case "%":
		v /= 100
	case "":
		v /= max
	default:
		return 0, fmt.Errorf("unexpected unit in %q", tok)
	}
	return math.Min(math.Max(v, 0), 1), nil
}

func hue(tok string) (float64, error) {
	num, unit := splitUnit(tok)
	if unit != "" && unit != "deg" {
		return 0, fmt.Errorf("invalid hue %q", tok)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hue %q", tok)
	}
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v / 360, nil
}

func hslToRGB(h, s, l float64) (float64, float64, float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
