package main

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin io.Reader, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, stdin, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	return cfg.Width, cfg.Height
}

func TestFlagsMapToOptions(t *testing.T) {
	c := &cli{}
	fs := newFlagSet(c, io.Discard)
	err := fs.Parse([]string{
		"-f", "20px serif",
		"-c", "red",
		"-b", "#000",
		"-p", "4",
		"-paddingLeft", "abc",
		"-width", "",
		"-height", "80",
		"-a", "center",
	})
	if err != nil {
		t.Fatal(err)
	}
	o := c.options()

	if o.Font == nil || *o.Font != "20px serif" {
		t.Errorf("font = %v", o.Font)
	}
	if o.Color == nil || *o.Color != "red" || o.TextColor != nil {
		t.Errorf("-c should set the color alias")
	}
	if o.BackgroundColor == nil || *o.BackgroundColor != "#000" {
		t.Errorf("backgroundColor = %v", o.BackgroundColor)
	}
	if o.Padding == nil || *o.Padding != 4 {
		t.Errorf("padding = %v", o.Padding)
	}
	if o.PaddingLeft != nil {
		t.Errorf("non-numeric paddingLeft should be unset, got %v", *o.PaddingLeft)
	}
	if o.Width != nil {
		t.Errorf("empty width should be unset")
	}
	if o.Height == nil || *o.Height != 80 {
		t.Errorf("height = %v", o.Height)
	}
	if o.ImageSmoothingEnabled != nil {
		t.Errorf("smoothing should stay unset without -smooth")
	}
}

func TestMissingOutputPrintsUsage(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := runCLI(t, nil, "-t", "hello")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stderr, "Usage: text2png") {
		t.Fatalf("stderr = %q", stderr)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatal("no file should be written")
	}
}

func TestMissingTextPrintsUsage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	code, _, stderr := runCLI(t, strings.NewReader(""), "-o", out)
	if code != 0 || !strings.Contains(stderr, "Usage") {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output must not be created")
	}
}

func TestRenderFromFlag(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	code, _, stderr := runCLI(t, nil, "-t", "Hi", "-o", out, "-width", "120", "-height", "40", "-b", "white")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if w, h := pngSize(t, out); w != 120 || h != 40 {
		t.Fatalf("png %dx%d, want 120x40", w, h)
	}
}

func TestRenderFromStdin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	code, _, stderr := runCLI(t, strings.NewReader("piped\ntext\n"), "-o", out)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if w, h := pngSize(t, out); w == 0 || h == 0 {
		t.Fatal("empty image")
	}
}

func TestPresetFlagsWin(t *testing.T) {
	dir := t.TempDir()
	preset := filepath.Join(dir, "preset.yaml")
	if err := os.WriteFile(preset, []byte("width: 50\nheight: 50\nbackgroundColor: black\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.png")
	code, _, stderr := runCLI(t, nil, "-t", "x", "-o", out, "-preset", preset, "-width", "70")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if w, h := pngSize(t, out); w != 70 || h != 50 {
		t.Fatalf("png %dx%d, want 70x50", w, h)
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes", "deep")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(src, name), []byte("note "+name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	outDir := filepath.Join(dir, "out")
	pattern := filepath.ToSlash(filepath.Join(dir, "notes")) + "/**/*.txt"

	code, _, stderr := runCLI(t, nil, "-batch", pattern, "-o", outDir)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	for _, name := range []string{"a.png", "b.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, nil, "-version")
	if code != 0 || strings.TrimSpace(stdout) != version {
		t.Fatalf("code %d, stdout %q", code, stdout)
	}
}

func TestBadFontFails(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	code, _, stderr := runCLI(t, nil, "-t", "x", "-o", out,
		"-localFontPath", filepath.Join(t.TempDir(), "missing.ttf"), "-localFontName", "M")
	if code != 1 || !strings.Contains(stderr, "failed to load local font from path") {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
}
