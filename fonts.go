package text2png

import (
	"context"
	"log/slog"
	"sync"

	"text2png/internal/config"
	"text2png/internal/css"
	"text2png/internal/files"
	"text2png/internal/fonts"
)

var (
	loaderMu sync.Mutex
	loader   *files.FontLoader
)

func fontLoader() *files.FontLoader {
	loaderMu.Lock()
	defer loaderMu.Unlock()
	if loader == nil {
		loader = files.NewFontLoader(config.DefaultFontCache())
	}
	return loader
}

// SetFontCacheDir sets where downloaded fonts are cached. An empty dir
// disables the cache. The default is FONT_CACHE or the user cache dir.
func SetFontCacheDir(dir string) {
	loaderMu.Lock()
	defer loaderMu.Unlock()
	loader = files.NewFontLoader(dir)
}

// RegisterFont makes the font at path available to later renders as
// family. path may be a local .ttf/.otf/.woff/.woff2 file, an http(s) URL
// or a "google:FAMILY:WEIGHT" spec. Registration is process-wide and
// additive; registering a family again adds a face that shadows the older
// one for the same weight and style.
func RegisterFont(path, family string) error {
	return RegisterFontFace(context.Background(), path, family, "", "")
}

// RegisterFontFace is RegisterFont for a specific weight ("bold", "300")
// and style ("italic") of family.
func RegisterFontFace(ctx context.Context, path, family, weight, style string) error {
	w, italic, err := css.ParseFace(weight, style)
	if err != nil {
		return &FontRegistrationError{Path: path, Err: err}
	}

	data, err := fontLoader().Load(ctx, path)
	if err != nil {
		return &FontRegistrationError{Path: path, Err: err}
	}
	if err := fonts.Default().Register(family, data, w, italic); err != nil {
		return &FontRegistrationError{Path: path, Err: err}
	}

	slog.Debug("registered font", "path", path, "family", family, "weight", w, "italic", italic)
	return nil
}

func registerLocalFont(ctx context.Context, cfg config.Config) error {
	if !cfg.HasLocalFont() {
		return nil
	}
	return RegisterFontFace(ctx, cfg.LocalFontPath, cfg.LocalFontName, cfg.LocalFontWeight, cfg.LocalFontStyle)
}
