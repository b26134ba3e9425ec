package layout

import (
	"math"
	"testing"

	"text2png/internal/config"
)

// fakeMeasurer reports 10px per rune, an 8px ascent and a 2px descent,
// unless a line has an explicit entry.
type fakeMeasurer struct {
	font   string
	fonts  []string
	custom map[string]TextMetrics
}

func (f *fakeMeasurer) SetFont(font string) {
	f.font = font
	f.fonts = append(f.fonts, font)
}

func (f *fakeMeasurer) MeasureText(text string) TextMetrics {
	if tm, ok := f.custom[text]; ok {
		return tm
	}
	w := float64(len([]rune(text))) * 10
	return TextMetrics{Width: w, MinX: 0, MaxX: w, MinY: -8, MaxY: 2}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCollectEmptyTextIsOneLine(t *testing.T) {
	m := Collect(&fakeMeasurer{}, "10px x", "", 0)
	if len(m.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(m.Lines))
	}
	if m.Lines[0].Text != "" {
		t.Fatalf("line text = %q", m.Lines[0].Text)
	}
}

func TestCollectAggregates(t *testing.T) {
	fm := &fakeMeasurer{custom: map[string]TextMetrics{
		"jog": {MinX: -3, MaxX: 30, MinY: -9, MaxY: 4},
		"Ho":  {MinX: 1, MaxX: 20, MinY: -11, MaxY: 0},
	}}
	m := Collect(fm, "20px serif", "jog\nHo", 5)

	if len(fm.fonts) != 2 || fm.fonts[0] != "20px serif" {
		t.Fatalf("font should be set before each measurement, got %q", fm.fonts)
	}
	if m.Lines[0].Left != 3 || m.Lines[1].Left != -1 {
		t.Fatalf("left bearings = %v, %v; want 3, -1", m.Lines[0].Left, m.Lines[1].Left)
	}
	want := Extents{Left: 3, Right: 30, Ascent: 11, Descent: 4}
	if m.Max != want {
		t.Fatalf("Max = %+v, want %+v", m.Max, want)
	}
	if m.LastDescent != 0 {
		t.Fatalf("LastDescent = %v, want 0", m.LastDescent)
	}
	if got := m.LineHeight(); got != 20 {
		t.Fatalf("LineHeight = %v, want 20", got)
	}
	if got := m.ContentWidth(); got != 33 {
		t.Fatalf("ContentWidth = %v, want 33", got)
	}
	// 20*2 - 5 - (4 - 0)
	if got := m.ContentHeight(); got != 31 {
		t.Fatalf("ContentHeight = %v, want 31", got)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\r\nb\n\nc")
	want := []string{"a", "b", "", "c"}
	if len(got) != len(want) {
		t.Fatalf("SplitLines = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SplitLines = %q, want %q", got, want)
		}
	}
	if nfc := SplitLines("e\u0301")[0]; nfc != "\u00e9" {
		t.Fatalf("lines should be NFC normalized, got %q", nfc)
	}
}

func TestNaturalSizeIndependentOfAlignment(t *testing.T) {
	text := "Hello\nWorld!!"
	for _, align := range []string{"left", "center", "right", "start", "end"} {
		cfg := config.Resolve(config.Options{
			Font:        config.Ptr("10px x"),
			TextAlign:   config.Ptr(align),
			Padding:     config.Ptr(3.0),
			BorderWidth: config.Ptr(2.0),
		})
		plan := Build(&fakeMeasurer{}, text, cfg)
		// content 70 wide, 2 lines * 10 tall
		if plan.Width != 70+10 || plan.Height != 20+10 {
			t.Fatalf("%s: canvas %dx%d, want 80x30", align, plan.Width, plan.Height)
		}
		if plan.Fit.ScaleFactor != 1 {
			t.Fatalf("%s: ScaleFactor = %v", align, plan.Fit.ScaleFactor)
		}
	}
}

func TestBaselinesAreEvenlySpaced(t *testing.T) {
	cfg := config.Resolve(config.Options{
		Font:        config.Ptr("10px x"),
		LineSpacing: config.Ptr(4.0),
		PaddingTop:  config.Ptr(5.0),
	})
	plan := Build(&fakeMeasurer{}, "a\nbb\nccc", cfg)

	for i, l := range plan.Lines {
		want := 8 + 5 + float64(i)*14
		if l.Y != want {
			t.Fatalf("line %d baseline = %v, want %v", i, l.Y, want)
		}
	}
}

func TestPlaceHorizontalAlignment(t *testing.T) {
	fm := &fakeMeasurer{custom: map[string]TextMetrics{
		"wide": {MinX: -2, MaxX: 40, MinY: -8, MaxY: 2},
		"nar":  {MinX: 1, MaxX: 20, MinY: -8, MaxY: 2},
	}}
	base := config.Options{Font: config.Ptr("10px x"), Padding: config.Ptr(5.0), BorderWidth: config.Ptr(1.0)}

	left := base
	left.TextAlign = config.Ptr("left")
	plan := Build(fm, "wide\nnar", config.Resolve(left))
	if plan.Lines[0].X != 2+6 || plan.Lines[1].X != -1+6 {
		t.Fatalf("left x = %v, %v; want 8, 5", plan.Lines[0].X, plan.Lines[1].X)
	}

	center := base
	center.TextAlign = config.Ptr("center")
	plan = Build(fm, "wide\nnar", config.Resolve(center))
	for _, l := range plan.Lines {
		if l.X != 21+6 {
			t.Fatalf("center x = %v, want 27", l.X)
		}
	}

	right := base
	right.TextAlign = config.Ptr("right")
	plan = Build(fm, "wide\nnar", config.Resolve(right))
	// width = 42 + 12
	for _, l := range plan.Lines {
		if l.X != 54-6 {
			t.Fatalf("right x = %v, want 48", l.X)
		}
	}
}

func TestFitWithoutFixedSizeIsIdentity(t *testing.T) {
	m := Collect(&fakeMeasurer{}, "10px x", "abc", 0)
	cfg := config.Resolve(config.Options{Padding: config.Ptr(1.0)})
	fit := FitToConfig(m, "10px x", cfg)
	if fit.ScaleFactor != 1 || fit.Font != "10px x" {
		t.Fatalf("unexpected fit: %+v", fit)
	}
	if fit.AvailableWidth != 30 || fit.AvailableHeight != 10 {
		t.Fatalf("available = %vx%v, want 30x10", fit.AvailableWidth, fit.AvailableHeight)
	}
}

func TestFitNeverUpscales(t *testing.T) {
	m := Collect(&fakeMeasurer{}, "80px Arial", "IGX", 0)
	cfg := config.Resolve(config.Options{Width: config.Ptr(200.0), Height: config.Ptr(200.0)})
	fit := FitToConfig(m, "80px Arial", cfg)
	if fit.ScaleFactor != 1 {
		t.Fatalf("ScaleFactor = %v, want 1", fit.ScaleFactor)
	}
	if fit.Font != "80px Arial" {
		t.Fatalf("Font = %q, want unchanged", fit.Font)
	}
	if fit.Width != 200 || fit.Height != 200 {
		t.Fatalf("canvas = %vx%v", fit.Width, fit.Height)
	}
}

func TestFitShrinks(t *testing.T) {
	// 10 runes * 10px = 100 wide, 10 tall; 50px interior -> 0.5
	m := Collect(&fakeMeasurer{}, "bold 40px Arial", "0123456789", 0)
	cfg := config.Resolve(config.Options{
		Width:   config.Ptr(60.0),
		Height:  config.Ptr(100.0),
		Padding: config.Ptr(5.0),
	})
	fit := FitToConfig(m, "bold 40px Arial", cfg)

	if !near(fit.ScaleFactor, 0.5) {
		t.Fatalf("ScaleFactor = %v, want 0.5", fit.ScaleFactor)
	}
	if fit.Font != "bold 20px Arial" {
		t.Fatalf("Font = %q, want bold 20px Arial", fit.Font)
	}
	if !near(fit.Metrics.ContentWidth(), 50) || !near(fit.Metrics.ContentHeight(), 5) {
		t.Fatalf("scaled content = %vx%v", fit.Metrics.ContentWidth(), fit.Metrics.ContentHeight())
	}
	if fit.Width != 60 || fit.Height != 100 {
		t.Fatalf("canvas = %vx%v, want 60x100", fit.Width, fit.Height)
	}
}

func TestFitFloorWins(t *testing.T) {
	m := Collect(&fakeMeasurer{}, "40px Arial", "0123456789", 0)
	cfg := config.Resolve(config.Options{
		Width:       config.Ptr(10.0),
		MinFontSize: config.Ptr(8.0),
	})
	fit := FitToConfig(m, "40px Arial", cfg)

	// fit would need 0.1 (4px); the floor forces 8px -> 0.2
	if !near(fit.ScaleFactor, 0.2) {
		t.Fatalf("ScaleFactor = %v, want 0.2", fit.ScaleFactor)
	}
	if fit.Font != "8px Arial" {
		t.Fatalf("Font = %q, want 8px Arial", fit.Font)
	}
	if fit.Metrics.ContentWidth() <= fit.AvailableWidth {
		t.Fatal("floor-clamped text is expected to overflow the box")
	}
	// height stays natural when only width is fixed
	if fit.Height != 10 {
		t.Fatalf("Height = %v, want natural 10", fit.Height)
	}
}

func TestFitFloorBelowOriginalSize(t *testing.T) {
	m := Collect(&fakeMeasurer{}, "6px Arial", "0123456789", 0)
	cfg := config.Resolve(config.Options{
		Width:       config.Ptr(10.0),
		MinFontSize: config.Ptr(8.0),
	})
	fit := FitToConfig(m, "6px Arial", cfg)

	// a font already under minFontSize keeps its own size and is never grown
	if !near(fit.ScaleFactor, 1) {
		t.Fatalf("ScaleFactor = %v, want 1", fit.ScaleFactor)
	}
	if fit.Font != "6px Arial" {
		t.Fatalf("Font = %q, want 6px Arial", fit.Font)
	}
	if fit.Metrics.ContentWidth() != m.ContentWidth() {
		t.Fatalf("ContentWidth = %v, want unscaled %v", fit.Metrics.ContentWidth(), m.ContentWidth())
	}
}

func TestFitScaleMonotonicity(t *testing.T) {
	m := Collect(&fakeMeasurer{}, "30px x", "some long line of text", 3)
	for w := 5.0; w <= 400; w += 15 {
		cfg := config.Resolve(config.Options{Width: config.Ptr(w), Height: config.Ptr(w / 2)})
		fit := FitToConfig(m, "30px x", cfg)
		if fit.ScaleFactor > 1 {
			t.Fatalf("w=%v: ScaleFactor %v > 1", w, fit.ScaleFactor)
		}
		size, ok := FontSize(fit.Font)
		if !ok || size < cfg.MinFontSize-1e-9 {
			t.Fatalf("w=%v: font %q below floor", w, fit.Font)
		}
	}
}

func TestFitDefaultsSizeWithoutPx(t *testing.T) {
	m := Collect(&fakeMeasurer{}, "2em serif", "0123456789", 0)
	cfg := config.Resolve(config.Options{Width: config.Ptr(50.0)})
	fit := FitToConfig(m, "2em serif", cfg)
	if !near(fit.ScaleFactor, 0.5) {
		t.Fatalf("ScaleFactor = %v, want 0.5", fit.ScaleFactor)
	}
	if fit.Font != "2em serif" {
		t.Fatalf("font without px must be left alone, got %q", fit.Font)
	}
}

func TestVerticalAlignment(t *testing.T) {
	tests := []struct {
		align string
		want  float64
	}{
		{"top", 0},
		{"middle", 45},
		{"bottom", 90},
		{"baseline", 0},
	}
	for _, tt := range tests {
		cfg := config.Resolve(config.Options{
			Font:          config.Ptr("10px x"),
			Height:        config.Ptr(100.0),
			VerticalAlign: config.Ptr(tt.align),
		})
		plan := Build(&fakeMeasurer{}, "abc", cfg)
		if plan.VerticalOffset != tt.want {
			t.Fatalf("%s: VerticalOffset = %v, want %v", tt.align, plan.VerticalOffset, tt.want)
		}
	}
}

func TestBottomAlignTouchesInteriorBottom(t *testing.T) {
	fm := &fakeMeasurer{custom: map[string]TextMetrics{
		"gy": {MaxX: 20, MinY: -8, MaxY: 4},
		"ab": {MaxX: 20, MinY: -8, MaxY: 1},
	}}
	cfg := config.Resolve(config.Options{
		Font:          config.Ptr("10px x"),
		Height:        config.Ptr(120.0),
		Padding:       config.Ptr(6.0),
		BorderWidth:   config.Ptr(2.0),
		VerticalAlign: config.Ptr("bottom"),
	})
	plan := Build(fm, "gy\nab", cfg)
	last := plan.Lines[len(plan.Lines)-1]
	bottom := last.Y + 1
	if !near(bottom, 120-6-2) {
		t.Fatalf("last line ink bottom = %v, want %v", bottom, 112.0)
	}
}

func TestThreeLineScenario(t *testing.T) {
	cfg := config.Resolve(config.Options{
		Font:        config.Ptr("24px Arial"),
		Width:       config.Ptr(250.0),
		Height:      config.Ptr(150.0),
		LineSpacing: config.Ptr(8.0),
		Padding:     config.Ptr(10.0),
		BorderWidth: config.Ptr(1.0),
	})
	plan := Build(&fakeMeasurer{}, "Line 1\nLine 2\nLine 3", cfg)

	if plan.Width != 250 || plan.Height != 150 {
		t.Fatalf("canvas %dx%d, want 250x150", plan.Width, plan.Height)
	}
	step := plan.Fit.Metrics.LineHeight()
	for i := 1; i < len(plan.Lines); i++ {
		gap := plan.Lines[i].Y - plan.Lines[i-1].Y
		if !near(gap, step) {
			t.Fatalf("baseline gap %d = %v, want %v", i, gap, step)
		}
		if gap < plan.Fit.Metrics.Max.Ascent+plan.Fit.Metrics.Max.Descent {
			t.Fatalf("lines %d and %d overlap", i-1, i)
		}
	}
}

func TestStrokeWidthScales(t *testing.T) {
	cfg := config.Resolve(config.Options{
		Font:        config.Ptr("40px x"),
		StrokeWidth: config.Ptr(4.0),
		Width:       config.Ptr(50.0),
	})
	plan := Build(&fakeMeasurer{}, "0123456789", cfg)
	if !near(plan.StrokeWidth, 2) {
		t.Fatalf("StrokeWidth = %v, want 2", plan.StrokeWidth)
	}
	if plan.Font != "20px x" {
		t.Fatalf("Font = %q", plan.Font)
	}
}

func TestWithFontSize(t *testing.T) {
	if got := WithFontSize("italic 30px/1.2 \"A B\"", 12.5); got != "italic 12.5px/1.2 \"A B\"" {
		t.Fatalf("WithFontSize = %q", got)
	}
	if size, ok := FontSize("700 .5px x"); !ok || size != 0.5 {
		t.Fatalf("FontSize = %v, %v", size, ok)
	}
}

func TestPixels(t *testing.T) {
	for in, want := range map[float64]int{0: 0, -3: 0, 10: 10, 10.2: 11, 200.0000000001: 200} {
		if got := pixels(in); got != want {
			t.Fatalf("pixels(%v) = %d, want %d", in, got, want)
		}
	}
}
