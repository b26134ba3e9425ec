package config

// Options is the partial, caller-facing option bag. A nil field means the
// key was not supplied; Resolve fills it from an alias or a default.
type Options struct {
	Font      *string `yaml:"font,omitempty" toml:"font,omitempty" json:"font,omitempty"`
	TextAlign *string `yaml:"textAlign,omitempty" toml:"textAlign,omitempty" json:"textAlign,omitempty"`

	TextColor       *string `yaml:"textColor,omitempty" toml:"textColor,omitempty" json:"textColor,omitempty"`
	Color           *string `yaml:"color,omitempty" toml:"color,omitempty" json:"color,omitempty"`
	BackgroundColor *string `yaml:"backgroundColor,omitempty" toml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	BgColor         *string `yaml:"bgColor,omitempty" toml:"bgColor,omitempty" json:"bgColor,omitempty"`

	LineSpacing *float64 `yaml:"lineSpacing,omitempty" toml:"lineSpacing,omitempty" json:"lineSpacing,omitempty"`

	StrokeWidth *float64 `yaml:"strokeWidth,omitempty" toml:"strokeWidth,omitempty" json:"strokeWidth,omitempty"`
	StrokeColor *string  `yaml:"strokeColor,omitempty" toml:"strokeColor,omitempty" json:"strokeColor,omitempty"`

	Padding       *float64 `yaml:"padding,omitempty" toml:"padding,omitempty" json:"padding,omitempty"`
	PaddingLeft   *float64 `yaml:"paddingLeft,omitempty" toml:"paddingLeft,omitempty" json:"paddingLeft,omitempty"`
	PaddingTop    *float64 `yaml:"paddingTop,omitempty" toml:"paddingTop,omitempty" json:"paddingTop,omitempty"`
	PaddingRight  *float64 `yaml:"paddingRight,omitempty" toml:"paddingRight,omitempty" json:"paddingRight,omitempty"`
	PaddingBottom *float64 `yaml:"paddingBottom,omitempty" toml:"paddingBottom,omitempty" json:"paddingBottom,omitempty"`

	BorderWidth       *float64 `yaml:"borderWidth,omitempty" toml:"borderWidth,omitempty" json:"borderWidth,omitempty"`
	BorderLeftWidth   *float64 `yaml:"borderLeftWidth,omitempty" toml:"borderLeftWidth,omitempty" json:"borderLeftWidth,omitempty"`
	BorderTopWidth    *float64 `yaml:"borderTopWidth,omitempty" toml:"borderTopWidth,omitempty" json:"borderTopWidth,omitempty"`
	BorderRightWidth  *float64 `yaml:"borderRightWidth,omitempty" toml:"borderRightWidth,omitempty" json:"borderRightWidth,omitempty"`
	BorderBottomWidth *float64 `yaml:"borderBottomWidth,omitempty" toml:"borderBottomWidth,omitempty" json:"borderBottomWidth,omitempty"`
	BorderColor       *string  `yaml:"borderColor,omitempty" toml:"borderColor,omitempty" json:"borderColor,omitempty"`

	LocalFontPath   *string `yaml:"localFontPath,omitempty" toml:"localFontPath,omitempty" json:"localFontPath,omitempty"`
	LocalFontName   *string `yaml:"localFontName,omitempty" toml:"localFontName,omitempty" json:"localFontName,omitempty"`
	LocalFontWeight *string `yaml:"localFontWeight,omitempty" toml:"localFontWeight,omitempty" json:"localFontWeight,omitempty"`
	LocalFontStyle  *string `yaml:"localFontStyle,omitempty" toml:"localFontStyle,omitempty" json:"localFontStyle,omitempty"`

	Output                *string `yaml:"output,omitempty" toml:"output,omitempty" json:"output,omitempty"`
	ImageSmoothingEnabled *bool   `yaml:"imageSmoothingEnabled,omitempty" toml:"imageSmoothingEnabled,omitempty" json:"imageSmoothingEnabled,omitempty"`

	Width         *float64 `yaml:"width,omitempty" toml:"width,omitempty" json:"width,omitempty"`
	Height        *float64 `yaml:"height,omitempty" toml:"height,omitempty" json:"height,omitempty"`
	MinFontSize   *float64 `yaml:"minFontSize,omitempty" toml:"minFontSize,omitempty" json:"minFontSize,omitempty"`
	VerticalAlign *string  `yaml:"verticalAlign,omitempty" toml:"verticalAlign,omitempty" json:"verticalAlign,omitempty"`
}

type TextAlign string

const (
	AlignStart  TextAlign = "start"
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignEnd    TextAlign = "end"
	AlignRight  TextAlign = "right"
)

type VerticalAlign string

const (
	AlignTop    VerticalAlign = "top"
	AlignMiddle VerticalAlign = "middle"
	AlignBottom VerticalAlign = "bottom"
)

type Output string

const (
	OutputBuffer  Output = "buffer"
	OutputStream  Output = "stream"
	OutputDataURL Output = "dataURL"
	OutputCanvas  Output = "canvas"
)

// Sides holds one value per box edge.
type Sides struct {
	Left   float64 `yaml:"left" json:"left"`
	Top    float64 `yaml:"top" json:"top"`
	Right  float64 `yaml:"right" json:"right"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
}

func (s Sides) Horizontal() float64 { return s.Left + s.Right }

func (s Sides) Vertical() float64 { return s.Top + s.Bottom }

// Any reports whether at least one side is non-zero.
func (s Sides) Any() bool {
	return s.Left != 0 || s.Top != 0 || s.Right != 0 || s.Bottom != 0
}

// Config is the resolved configuration for a single render. Aliases are
// already folded in; nothing downstream looks at Options again.
type Config struct {
	Font          string
	TextAlign     TextAlign
	VerticalAlign VerticalAlign

	TextColor string
	// BackgroundColor is empty when the interior stays unpainted.
	BackgroundColor string

	LineSpacing float64
	StrokeWidth float64
	StrokeColor string

	Padding     Sides
	Border      Sides
	BorderColor string

	LocalFontPath   string
	LocalFontName   string
	LocalFontWeight string
	LocalFontStyle  string

	Output                Output
	ImageSmoothingEnabled bool

	// Width and Height are nil unless a fixed dimension was requested.
	Width       *float64
	Height      *float64
	MinFontSize float64
}

// HasFixedSize reports whether the fixed-size scaler applies.
func (c Config) HasFixedSize() bool {
	return c.Width != nil || c.Height != nil
}

// HasLocalFont reports whether a font file must be registered before measuring.
func (c Config) HasLocalFont() bool {
	return c.LocalFontPath != "" && c.LocalFontName != ""
}
