package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

var ErrMissingToken = errors.New("TOKEN environment variable is required")

// Load reads the bot settings from the environment.
func Load(logger *slog.Logger) (*App, error) {
	token := os.Getenv("TOKEN")
	if token == "" {
		return nil, ErrMissingToken
	}

	return &App{
		BotToken:   token,
		TempDir:    getEnv(logger, "TEMP_DIR", "./temp", parseString),
		FontDir:    getEnv(logger, "FONT_DIR", "./fonts", parseString),
		FontCache:  getEnv(logger, "FONT_CACHE", defaultFontCache(), parseString),
		PresetFile: getEnv(logger, "PRESET_FILE", "", parseString),

		MaxFileSize:   getEnv(logger, "MAX_FILE_SIZE", 10*1024*1024, parseInt),
		MaxCanvasSize: getEnv(logger, "MAX_CANVAS_SIZE", int64(DefaultMaxCanvasSize), parseInt),
		MaxFontSize:   getEnv(logger, "MAX_FONT_SIZE", int64(DefaultMaxFontSize), parseInt),

		LogFile:    getEnv(logger, "LOG_FILE", "", parseString),
		LogLevel:   getEnv(logger, "LOG_LEVEL", "info", parseString),
		LogMaxSize: getEnv(logger, "LOG_MAX_SIZE", 10, parseInt),
	}, nil
}

func defaultFontCache() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".font-cache"
	}
	return filepath.Join(dir, "text2png", "fonts")
}

// DefaultFontCache is where remote fonts are cached when nothing else is
// configured.
func DefaultFontCache() string {
	return getEnv(slog.Default(), "FONT_CACHE", defaultFontCache(), parseString)
}

func getEnv[T any](logger *slog.Logger, key string, defaultValue T, parser func(string) (T, error)) T {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	parsed, err := parser(val)
	if err != nil {
		logger.Warn("invalid environment value, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}

	return parsed
}

func parseString(val string) (string, error) {
	return val, nil
}

func parseInt(val string) (int64, error) {
	return strconv.ParseInt(val, 10, 64)
}
