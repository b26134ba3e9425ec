package config

import (
	"errors"
	"testing"
)

func TestLimitsCheck(t *testing.T) {
	l := DefaultLimits()
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"empty", Options{}, true},
		{"at limit", Options{Width: Ptr(4096.0), Height: Ptr(4096.0)}, true},
		{"width", Options{Width: Ptr(100000.0)}, false},
		{"height", Options{Height: Ptr(4097.0)}, false},
		{"padding side", Options{PaddingTop: Ptr(5000.0)}, false},
		{"border", Options{BorderWidth: Ptr(1e6)}, false},
		{"stroke", Options{StrokeWidth: Ptr(1e6)}, false},
		{"line spacing", Options{LineSpacing: Ptr(1e6)}, false},
		{"font size", Options{Font: Ptr("bold 600px serif")}, false},
		{"font in pt", Options{Font: Ptr("400pt serif")}, false},
		{"small font", Options{Font: Ptr("48px serif")}, true},
		{"unparsed font", Options{Font: Ptr("huge")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Check(tt.opts)
			if tt.ok && err != nil {
				t.Fatalf("Check: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrOverLimit) {
				t.Fatalf("Check = %v, want ErrOverLimit", err)
			}
		})
	}
}

func TestZeroLimitsAllowAnything(t *testing.T) {
	var l Limits
	if err := l.Check(Options{Width: Ptr(1e9), Font: Ptr("9000px serif")}); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := l.CheckCanvas(1<<20, 1<<20); err != nil {
		t.Fatalf("CheckCanvas: %v", err)
	}
}

func TestCheckCanvas(t *testing.T) {
	l := Limits{MaxCanvasSize: 100}
	if err := l.CheckCanvas(100, 1); err != nil {
		t.Fatalf("CheckCanvas(100, 1): %v", err)
	}
	if err := l.CheckCanvas(1, 101); !errors.Is(err, ErrOverLimit) {
		t.Fatalf("CheckCanvas(1, 101) = %v, want ErrOverLimit", err)
	}
}

func TestShareableDropsHostKeys(t *testing.T) {
	o := Options{
		TextColor:       Ptr("red"),
		LocalFontPath:   Ptr("/etc/passwd"),
		LocalFontName:   Ptr("sans-serif"),
		LocalFontWeight: Ptr("700"),
		LocalFontStyle:  Ptr("italic"),
		Output:          Ptr("stream"),
	}
	got := o.Shareable()
	if got != (Options{TextColor: o.TextColor}) {
		t.Fatalf("Shareable = %+v", got)
	}
	if o.LocalFontPath == nil {
		t.Fatal("Shareable must not modify its receiver")
	}
}
