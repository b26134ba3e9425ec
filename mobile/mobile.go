// Package mobile exposes text2png through gomobile-friendly signatures:
// options travel as JSON using the same keys as the library.
package mobile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"text2png"
	"text2png/internal/bot"
	"text2png/internal/config"
	"text2png/internal/files"
	"text2png/internal/handlers"
	"text2png/internal/services"
	"text2png/internal/storage"
)

const maxFileSize = 50 * 1024 * 1024

func decodeOptions(optionsJSON string) (config.Options, error) {
	var o config.Options
	if optionsJSON == "" {
		return o, nil
	}
	if err := json.Unmarshal([]byte(optionsJSON), &o); err != nil {
		return o, fmt.Errorf("invalid options json: %w", err)
	}
	return o, nil
}

// RenderPNG renders text and returns the PNG bytes.
func RenderPNG(text, optionsJSON string) ([]byte, error) {
	o, err := decodeOptions(optionsJSON)
	if err != nil {
		return nil, err
	}
	o.Output = text2png.Ptr(string(text2png.OutputBuffer))
	res, err := text2png.Render(text, o)
	if err != nil {
		return nil, err
	}
	return res.Buffer, nil
}

// RenderDataURL renders text and returns a data:image/png;base64 URL.
func RenderDataURL(text, optionsJSON string) (string, error) {
	o, err := decodeOptions(optionsJSON)
	if err != nil {
		return "", err
	}
	o.Output = text2png.Ptr(string(text2png.OutputDataURL))
	res, err := text2png.Render(text, o)
	if err != nil {
		return "", err
	}
	return res.DataURL, nil
}

// RegisterFont registers a font file for later renders.
func RegisterFont(path, family string) error {
	return text2png.RegisterFont(path, family)
}

type BotControl struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewBotControl() *BotControl {
	return &BotControl{}
}

// StartBot runs the Telegram bot in the background. fontDir may be empty.
func (bc *BotControl) StartBot(token, tempDir, fontDir string) string {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.cancel != nil {
		return "Bot already started"
	}

	logger := slog.Default()

	botService, err := bot.NewTelegramBot(token, logger, maxFileSize)
	if err != nil {
		return fmt.Sprintf("Error creating bot: %v", err)
	}

	fileManager, err := files.NewTelegramFileManager(botService, tempDir, maxFileSize)
	if err != nil {
		return fmt.Sprintf("Error creating file manager: %v", err)
	}

	renderService, err := services.NewRenderService(logger, fileManager, tempDir)
	if err != nil {
		return fmt.Sprintf("Error creating render service: %v", err)
	}
	renderService.SetLimits(config.DefaultLimits())
	if fontDir != "" {
		if _, err := renderService.LoadFontDir(fontDir); err != nil {
			logger.Warn("font directory not loaded", "dir", fontDir, "error", err)
		}
	}

	handler := handlers.NewHandler(
		renderService,
		botService,
		storage.NewSessionStore(config.Options{}),
		config.DefaultLimits(),
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	bc.cancel = cancel

	go func() {
		logger.Info("bot goroutine started")
		if err := botService.Start(ctx, handler.HandleUpdate); err != nil && ctx.Err() == nil {
			logger.Error("bot stopped with error", "error", err)
			bc.mu.Lock()
			bc.cancel = nil
			bc.mu.Unlock()
		}
	}()

	return "Bot started successfully"
}

func (bc *BotControl) StopBot() {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.cancel != nil {
		bc.cancel()
		bc.cancel = nil
		slog.Info("bot stopped by user")
	}
}
