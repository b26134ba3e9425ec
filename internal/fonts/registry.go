// Package fonts holds the process-wide font registry. Families are
// registered additively and never removed; lookups resolve a parsed CSS font
// to a concrete face, walking the family list and falling back to
// sans-serif the way a browser canvas does.
package fonts

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"text2png/internal/css"
)

// FallbackFamily is used when none of the requested families is known.
const FallbackFamily = "sans-serif"

type face struct {
	weight int
	italic bool
	font   *sfnt.Font
}

// Registry maps family names to faces. It is safe for concurrent use;
// registering the same family twice adds another face, and the most
// recently registered face wins ties.
type Registry struct {
	mu       sync.RWMutex
	families map[string][]face
}

// NewRegistry returns a registry preloaded with the Go font families.
func NewRegistry() *Registry {
	r := &Registry{families: make(map[string][]face)}
	r.registerBuiltins()
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

type builtin struct {
	data   []byte
	weight int
	italic bool
}

func (r *Registry) registerBuiltins() {
	proportional := []builtin{
		{goregular.TTF, css.WeightNormal, false},
		{goitalic.TTF, css.WeightNormal, true},
		{gomedium.TTF, 500, false},
		{gomediumitalic.TTF, 500, true},
		{gobold.TTF, css.WeightBold, false},
		{gobolditalic.TTF, css.WeightBold, true},
	}
	mono := []builtin{
		{gomono.TTF, css.WeightNormal, false},
		{gomonoitalic.TTF, css.WeightNormal, true},
		{gomonobold.TTF, css.WeightBold, false},
		{gomonobolditalic.TTF, css.WeightBold, true},
	}

	r.addBuiltins(proportional, "sans-serif", "serif", "system-ui", "cursive", "fantasy", "go")
	r.addBuiltins(mono, "monospace", "go mono")
}

// addBuiltins parses each face once and shares it across the aliases.
func (r *Registry) addBuiltins(faces []builtin, families ...string) {
	for _, b := range faces {
		f, err := opentype.Parse(b.data)
		if err != nil {
			panic(fmt.Sprintf("fonts: builtin face: %v", err))
		}
		for _, family := range families {
			r.families[family] = append(r.families[family], face{weight: b.weight, italic: b.italic, font: f})
		}
	}
}

// Register parses SFNT (TTF/OTF) data and adds it as a face of family.
func (r *Registry) Register(family string, data []byte, weight int, italic bool) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	if weight == 0 {
		weight = css.WeightNormal
	}

	key := normalize(family)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[key] = append(r.families[key], face{weight: weight, italic: italic, font: f})
	return nil
}

// Has reports whether family has at least one face.
func (r *Registry) Has(family string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.families[normalize(family)]) > 0
}

// Lookup returns the best face for f. It never fails: unknown families
// fall back to FallbackFamily.
func (r *Registry) Lookup(f css.Font) *sfnt.Font {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, family := range f.Families {
		if faces := r.families[normalize(family)]; len(faces) > 0 {
			return bestMatch(faces, f)
		}
	}
	slog.Debug("font family not registered, using fallback", "families", f.Families, "fallback", FallbackFamily)
	return bestMatch(r.families[FallbackFamily], f)
}

// bestMatch scores faces by style then weight distance. Later faces win
// ties so a re-registered family shadows the earlier file.
func bestMatch(faces []face, f css.Font) *sfnt.Font {
	var best *sfnt.Font
	bestScore := -1
	for _, fc := range faces {
		score := abs(fc.weight - f.Weight)
		if fc.italic != f.Italic() {
			score += 1000
		}
		if best == nil || score <= bestScore {
			best, bestScore = fc.font, score
		}
	}
	return best
}

func normalize(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
