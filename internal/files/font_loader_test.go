package files

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadLocalFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Go-Regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := NewFontLoader("").Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Fatal("local SFNT data should be returned unchanged")
	}
}

func TestLoadMissingFont(t *testing.T) {
	_, err := NewFontLoader("").Load(context.Background(), filepath.Join(t.TempDir(), "missing.ttf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadURLUsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(goregular.TTF)
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	loader := NewFontLoader(cacheDir)

	for i := 0; i < 2; i++ {
		data, err := loader.Load(context.Background(), srv.URL+"/fonts/Go-Regular.ttf")
		if err != nil {
			t.Fatalf("Load #%d: %v", i, err)
		}
		if !bytes.Equal(data, goregular.TTF) {
			t.Fatalf("Load #%d returned unexpected bytes", i)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hit %d times, want 1 (second load from cache)", got)
	}
}

func TestLoadURLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewFontLoader("").Load(context.Background(), srv.URL+"/nope.ttf"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestParseGoogleFontSpec(t *testing.T) {
	family, weight, ok := ParseGoogleFontSpec("google:Inter:800")
	if !ok || family != "Inter" || weight != "800" {
		t.Fatalf("ParseGoogleFontSpec = %q, %q, %v", family, weight, ok)
	}
	for _, bad := range []string{"Inter:800", "google:Inter", "google::400", "local:Inter:400",
		"google:..:/../../x", "google:a/b:400", `google:a\\b:400`, "google:Inter:../x", "google:Inter:bold"} {
		if _, _, ok := ParseGoogleFontSpec(bad); ok {
			t.Fatalf("ParseGoogleFontSpec(%q) accepted an invalid spec", bad)
		}
	}
}

func TestLoadGoogleRejectsEscapingSpec(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	outside := filepath.Join(filepath.Dir(cacheDir), "x-400.ttf")
	if err := os.WriteFile(outside, goregular.TTF, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := NewFontLoader(cacheDir).Load(context.Background(), "google:../x:400")
	if err == nil {
		t.Fatal("a family with path elements must not be resolved through the cache")
	}
}

func TestToSFNTPassthrough(t *testing.T) {
	data, err := ToSFNT(goregular.TTF)
	if err != nil {
		t.Fatalf("ToSFNT: %v", err)
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Fatal("SFNT input should pass through unchanged")
	}
	if !isWOFF([]byte("wOF2rest")) || !isWOFF([]byte("wOFFrest")) || isWOFF([]byte("wO")) {
		t.Fatal("isWOFF magic detection is wrong")
	}
}

func TestURLCacheName(t *testing.T) {
	got := urlCacheName("https://example.com/fonts/Lobster.woff2")
	if got != "example.com_fonts_Lobster.ttf" {
		t.Fatalf("urlCacheName = %q", got)
	}
}
