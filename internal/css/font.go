// Package css parses the small subset of CSS that text2png accepts in its
// options: the font shorthand ("bold 30px Lobster, sans-serif") and color
// values (names, hex, rgb/rgba/hsl/hsla functions).
package css

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	cssLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"|'(?:\\.|[^'])*'`},
		{Name: "Hash", Pattern: `#[0-9A-Fa-f]+`},
		{Name: "Size", Pattern: `[-+]?(?:\d+(?:\.\d+)?|\.\d+)(?:px|pt|rem|em|%|deg)`},
		{Name: "Number", Pattern: `[-+]?(?:\d+(?:\.\d+)?|\.\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[,/()]`},
	})

	fontParser = participle.MustBuild[fontAST](
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace"),
	)
)

type fontAST struct {
	Prefixes   []string     `parser:"@(Ident | Number)*"`
	Size       string       `parser:"@Size"`
	LineHeight string       `parser:"( '/' @(Size | Number | Ident) )?"`
	Families   []*familyAST `parser:"@@ ( ',' @@ )*"`
}

type familyAST struct {
	Quoted string   `parser:"  @String"`
	Words  []string `parser:"| @Ident+"`
}

func (f *familyAST) name() string {
	if f.Quoted != "" {
		return f.Quoted[1 : len(f.Quoted)-1]
	}
	return strings.Join(f.Words, " ")
}

// Font is a parsed font shorthand.
type Font struct {
	Style   string
	Variant string
	Weight  int
	// Size is the font size in CSS pixels.
	Size     float64
	Families []string
}

const (
	StyleNormal  = "normal"
	StyleItalic  = "italic"
	StyleOblique = "oblique"

	WeightNormal = 400
	WeightBold   = 700

	// mediumSize is the CSS "medium" font size used to resolve em/rem/%.
	mediumSize = 16.0
)

// ParseFont parses a CSS font shorthand. A size and at least one family are
// required, as in a canvas context.
func ParseFont(s string) (Font, error) {
	ast, err := fontParser.ParseString("", s)
	if err != nil {
		return Font{}, fmt.Errorf("parse font %q: %w", s, err)
	}

	f := Font{Style: StyleNormal, Variant: "normal", Weight: WeightNormal}
	for _, p := range ast.Prefixes {
		if err := f.applyPrefix(p); err != nil {
			return Font{}, fmt.Errorf("parse font %q: %w", s, err)
		}
	}

	size, err := ParseLength(ast.Size)
	if err != nil {
		return Font{}, fmt.Errorf("parse font %q: %w", s, err)
	}
	if size < 0 {
		return Font{}, fmt.Errorf("parse font %q: negative size", s)
	}
	f.Size = size

	for _, fam := range ast.Families {
		f.Families = append(f.Families, fam.name())
	}
	return f, nil
}

func (f *Font) applyPrefix(p string) error {
	if n, err := strconv.Atoi(p); err == nil {
		if n < 1 || n > 1000 {
			return fmt.Errorf("font weight %d out of range", n)
		}
		f.Weight = n
		return nil
	}
	switch strings.ToLower(p) {
	case "normal":
	case "italic":
		f.Style = StyleItalic
	case "oblique":
		f.Style = StyleOblique
	case "small-caps":
		f.Variant = "small-caps"
	case "bold", "bolder":
		f.Weight = WeightBold
	case "lighter":
		f.Weight = 300
	case "ultra-condensed", "extra-condensed", "condensed", "semi-condensed",
		"semi-expanded", "expanded", "extra-expanded", "ultra-expanded":
	default:
		return fmt.Errorf("unknown font keyword %q", p)
	}
	return nil
}

// Bold reports whether the weight selects a bold face.
func (f Font) Bold() bool { return f.Weight >= 600 }

// Italic reports whether the style selects a slanted face.
func (f Font) Italic() bool { return f.Style == StyleItalic || f.Style == StyleOblique }

func (f Font) String() string {
	var parts []string
	if f.Style != "" && f.Style != StyleNormal {
		parts = append(parts, f.Style)
	}
	if f.Variant != "" && f.Variant != "normal" {
		parts = append(parts, f.Variant)
	}
	if f.Weight != 0 && f.Weight != WeightNormal {
		parts = append(parts, strconv.Itoa(f.Weight))
	}
	parts = append(parts, strconv.FormatFloat(f.Size, 'f', -1, 64)+"px")

	families := make([]string, len(f.Families))
	for i, fam := range f.Families {
		if strings.ContainsAny(fam, " ,") {
			fam = strconv.Quote(fam)
		}
		families[i] = fam
	}
	return strings.Join(parts, " ") + " " + strings.Join(families, ", ")
}

// ParseLength converts a CSS length token into pixels.
func ParseLength(tok string) (float64, error) {
	num, unit := splitUnit(tok)
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", tok)
	}
	switch unit {
	case "px", "":
		return v, nil
	case "pt":
		return v * 4 / 3, nil
	case "em", "rem":
		return v * mediumSize, nil
	case "%":
		return v / 100 * mediumSize, nil
	default:
		return 0, fmt.Errorf("unsupported unit %q", unit)
	}
}

func splitUnit(tok string) (string, string) {
	i := len(tok)
	for i > 0 {
		c := tok[i-1]
		if (c >= 'a' && c <= 'z') || c == '%' {
			i--
			continue
		}
		break
	}
	return tok[:i], tok[i:]
}

// ParseFace reads the weight and style a registered font file is declared
// with. Empty values mean normal.
func ParseFace(weight, style string) (int, bool, error) {
	w := WeightNormal
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "", "normal":
	case "bold":
		w = WeightBold
	default:
		n, err := strconv.Atoi(strings.TrimSpace(weight))
		if err != nil || n < 1 || n > 1000 {
			return 0, false, fmt.Errorf("invalid font weight %q", weight)
		}
		w = n
	}

	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", StyleNormal:
		return w, false, nil
	case StyleItalic, StyleOblique:
		return w, true, nil
	default:
		return 0, false, fmt.Errorf("invalid font style %q", style)
	}
}
