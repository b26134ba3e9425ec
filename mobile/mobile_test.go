package mobile

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
)

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG("mobile", `{"width": 90, "height": 30, "backgroundColor": "white", "output": "canvas"}`)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 90 || cfg.Height != 30 {
		t.Fatalf("png %dx%d, want 90x30", cfg.Width, cfg.Height)
	}
}

func TestRenderDataURL(t *testing.T) {
	url, err := RenderDataURL("mobile", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("url = %.40q", url)
	}
}

func TestInvalidJSON(t *testing.T) {
	if _, err := RenderPNG("x", "{"); err == nil {
		t.Fatal("expected error")
	}
}

func TestStopWithoutStart(t *testing.T) {
	NewBotControl().StopBot()
}
