package fonts

import (
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"text2png/internal/css"
)

func parse(t *testing.T, s string) css.Font {
	t.Helper()
	f, err := css.ParseFont(s)
	if err != nil {
		t.Fatalf("ParseFont(%q): %v", s, err)
	}
	return f
}

func TestLookupFallsBackToSansSerif(t *testing.T) {
	r := NewRegistry()
	want := r.Lookup(parse(t, "12px sans-serif"))
	if got := r.Lookup(parse(t, "12px NoSuchFamily")); got != want {
		t.Fatal("unknown family should resolve to the sans-serif face")
	}
}

func TestLookupPrefersWeightAndStyle(t *testing.T) {
	r := NewRegistry()
	regular := r.Lookup(parse(t, "12px sans-serif"))
	bold := r.Lookup(parse(t, "bold 12px sans-serif"))
	italic := r.Lookup(parse(t, "italic 12px sans-serif"))
	if regular == bold || regular == italic || bold == italic {
		t.Fatal("weight and style should select distinct faces")
	}
	if mono := r.Lookup(parse(t, "12px monospace")); mono == regular {
		t.Fatal("monospace should not resolve to the proportional face")
	}
}

func TestRegisterAndWalkFamilyList(t *testing.T) {
	r := NewRegistry()
	if r.Has("Custom Face") {
		t.Fatal("family registered before Register")
	}
	if err := r.Register("Custom Face", gomono.TTF, 0, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !r.Has("custom face") {
		t.Fatal("family lookup should be case-insensitive")
	}

	got := r.Lookup(parse(t, `12px "Missing", "Custom Face", serif`))
	if got == r.Lookup(parse(t, "12px serif")) {
		t.Fatal("first registered family in the list should win")
	}
}

func TestLatestRegistrationWinsTies(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("dup", goregular.TTF, 400, false); err != nil {
		t.Fatal(err)
	}
	first := r.Lookup(parse(t, "12px dup"))
	if err := r.Register("dup", gobold.TTF, 400, false); err != nil {
		t.Fatal(err)
	}
	if r.Lookup(parse(t, "12px dup")) == first {
		t.Fatal("re-registered family should shadow the earlier face")
	}
}

func TestRegisterRejectsGarbage(t *testing.T) {
	if err := NewRegistry().Register("bad", []byte("not a font"), 400, false); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConcurrentRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	f := parse(t, "12px shared")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Register("shared", goregular.TTF, 400, false)
		}()
		go func() {
			defer wg.Done()
			if r.Lookup(f) == nil {
				t.Error("Lookup returned nil")
			}
		}()
	}
	wg.Wait()
}
