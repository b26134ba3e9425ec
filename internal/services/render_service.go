package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"text2png"
	"text2png/internal/config"
	"text2png/internal/files"
)

// RenderService renders text to PNG files on disk for the bot and the CLI.
type RenderService struct {
	tempDir     string
	logger      *slog.Logger
	fileManager files.FileManager
	limits      config.Limits
}

// NewRenderService creates tempDir if needed. fileManager may be nil when
// fonts are never uploaded (CLI use).
func NewRenderService(logger *slog.Logger, fileManager files.FileManager, tempDir string) (*RenderService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &RenderService{
		tempDir:     tempDir,
		logger:      logger,
		fileManager: fileManager,
	}, nil
}

// SetLimits bounds the canvas of every later render. The zero Limits, the
// default, renders any size.
func (s *RenderService) SetLimits(l config.Limits) {
	s.limits = l
}

// RenderToTemp renders text into a new PNG in the temp directory and
// returns its path with a cleanup func removing it.
func (s *RenderService) RenderToTemp(ctx context.Context, text string, opts config.Options) (string, func(), error) {
	f, err := os.CreateTemp(s.tempDir, "render-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("create output: %w", err)
	}
	path := f.Name()
	f.Close()

	if err := s.RenderFile(ctx, text, path, opts); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// RenderFile renders text and atomically writes the PNG to outPath. The
// image is streamed into place, so a failed render leaves no file behind.
func (s *RenderService) RenderFile(ctx context.Context, text, outPath string, opts config.Options) error {
	if s.limits.MaxCanvasSize > 0 {
		w, h, err := text2png.Size(ctx, text, opts)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := s.limits.CheckCanvas(w, h); err != nil {
			return err
		}
	}

	opts.Output = config.Ptr(string(config.OutputStream))
	res, err := text2png.RenderContext(ctx, text, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer res.Stream.Close()

	if err := files.WriteFrom(outPath, res.Stream, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	s.logger.Debug("rendered image", "path", outPath, "chars", len(text))
	return nil
}

// RenderTextFile renders the contents of inPath to outPath.
func (s *RenderService) RenderTextFile(ctx context.Context, inPath, outPath string, opts config.Options) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return s.RenderFile(ctx, strings.TrimRight(string(data), "\r\n"), outPath, opts)
}

// RegisterChatFont downloads an uploaded font and registers it under a
// family private to chatID, which it returns.
func (s *RenderService) RegisterChatFont(ctx context.Context, chatID int64, fileID string) (string, error) {
	if s.fileManager == nil {
		return "", fmt.Errorf("font uploads are not available")
	}

	localPath, cleanup, err := s.fileManager.DownloadToTemp(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer cleanup()

	family := ChatFontFamily(chatID)
	if err := text2png.RegisterFont(localPath, family); err != nil {
		return "", err
	}
	s.logger.Info("registered chat font", "chat", chatID, "family", family, "file", filepath.Base(localPath))
	return family, nil
}

// ChatFontFamily is the family name a chat's uploaded font is registered as.
func ChatFontFamily(chatID int64) string {
	return "chat-" + strconv.FormatInt(chatID, 10)
}

// DownloadPreset fetches an uploaded YAML or TOML preset and decodes it.
func (s *RenderService) DownloadPreset(ctx context.Context, fileID string) (config.Options, error) {
	if s.fileManager == nil {
		return config.Options{}, fmt.Errorf("preset uploads are not available")
	}

	localPath, cleanup, err := s.fileManager.DownloadToTemp(ctx, fileID)
	if err != nil {
		return config.Options{}, fmt.Errorf("download failed: %w", err)
	}
	defer cleanup()

	return config.LoadPreset(localPath)
}

// LoadFontDir registers every font file under dir, each as the family named
// by its file name without extension. It returns the number registered.
func (s *RenderService) LoadFontDir(dir string) (int, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.{ttf,otf,woff,woff2,TTF,OTF,WOFF,WOFF2}")
	if err != nil {
		return 0, fmt.Errorf("scan font dir: %w", err)
	}

	n := 0
	for _, m := range matches {
		path := filepath.Join(dir, filepath.FromSlash(m))
		family := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
		if err := text2png.RegisterFont(path, family); err != nil {
			s.logger.Warn("skipping font", "path", path, "error", err)
			continue
		}
		s.logger.Debug("registered font", "family", family, "path", path)
		n++
	}
	return n, nil
}
