package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"text2png"
	"text2png/internal/bot"
	"text2png/internal/config"
	"text2png/internal/files"
	"text2png/internal/handlers"
	"text2png/internal/logger"
	"text2png/internal/services"
	"text2png/internal/storage"
)

func main() {
	cfg, err := config.Load(slog.Default())
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log, closer := logger.NewLogger(cfg.LogFile, logger.ParseLevel(cfg.LogLevel), int(cfg.LogMaxSize))
	defer closer.Close()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("bot exited", "error", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg *config.App, log *slog.Logger) error {
	defaults := config.Options{}
	if cfg.PresetFile != "" {
		preset, err := config.LoadPreset(cfg.PresetFile)
		if err != nil {
			return err
		}
		defaults = preset
	}

	text2png.SetFontCacheDir(cfg.FontCache)

	botService, err := bot.NewTelegramBot(cfg.BotToken, log, cfg.MaxFileSize)
	if err != nil {
		return err
	}

	fileManager, err := files.NewTelegramFileManager(botService, cfg.TempDir, cfg.MaxFileSize)
	if err != nil {
		return err
	}

	renderService, err := services.NewRenderService(log, fileManager, cfg.TempDir)
	if err != nil {
		return err
	}
	renderService.SetLimits(cfg.Limits())
	if cfg.FontDir != "" {
		n, err := renderService.LoadFontDir(cfg.FontDir)
		if err != nil {
			log.Warn("font directory not loaded", "dir", cfg.FontDir, "error", err)
		} else {
			log.Info("fonts loaded", "dir", cfg.FontDir, "count", n)
		}
	}

	handler := handlers.NewHandler(
		renderService,
		botService,
		storage.NewSessionStore(defaults),
		cfg.Limits(),
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = botService.Start(ctx, handler.HandleUpdate)
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	return err
}
