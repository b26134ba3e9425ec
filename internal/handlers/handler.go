package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mymmrac/telego"

	"text2png/internal/bot"
	"text2png/internal/config"
	"text2png/internal/services"
	"text2png/internal/storage"
)

const busyMessage = "⏳ Still rendering your last message, one moment."

var (
	fontExts   = map[string]bool{".ttf": true, ".otf": true, ".woff": true, ".woff2": true}
	presetExts = map[string]bool{".yaml": true, ".yml": true, ".toml": true}
)

type Handler struct {
	renderService *services.RenderService
	bot           bot.Bot
	sessions      *storage.SessionStore
	limits        config.Limits
	logger        *slog.Logger
}

func NewHandler(
	renderService *services.RenderService,
	bot bot.Bot,
	sessions *storage.SessionStore,
	limits config.Limits,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		renderService: renderService,
		bot:           bot,
		sessions:      sessions,
		limits:        limits,
		logger:        logger,
	}
}

// HandleUpdate routes one Telegram update: commands change the chat's
// options, documents register fonts or load presets, and any other text
// is rendered and sent back as an image.
func (h *Handler) HandleUpdate(ctx context.Context, update telego.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	if msg.Document != nil {
		h.handleDocument(ctx, chatID, msg.Document)
		return
	}

	text := getText(msg)
	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, chatID, text)
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	h.handleRender(ctx, chatID, text)
}

func (h *Handler) handleRender(ctx context.Context, chatID int64, text string) {
	if !h.sessions.TryStart(chatID) {
		_ = h.bot.SendText(ctx, chatID, busyMessage)
		return
	}
	defer h.sessions.Finish(chatID)

	opts := h.sessions.Options(chatID)
	if err := h.limits.Check(opts); err != nil {
		_ = h.bot.SendText(ctx, chatID, "❌ "+err.Error())
		return
	}

	_ = h.bot.SendChatAction(ctx, chatID, telego.ChatActionUploadPhoto)

	path, cleanup, err := h.renderService.RenderToTemp(ctx, text, opts)
	if errors.Is(err, config.ErrOverLimit) {
		_ = h.bot.SendText(ctx, chatID, "❌ "+err.Error())
		return
	}
	if err != nil {
		h.fail(ctx, chatID, "render failed", "🚧 Could not render that: "+err.Error(), err)
		return
	}
	defer cleanup()

	if err := h.bot.SendFileAuto(ctx, chatID, path); err != nil {
		h.logger.Error("send render failed", "chat", chatID, "error", err)
	}
}

func (h *Handler) handleDocument(ctx context.Context, chatID int64, doc *telego.Document) {
	ext := strings.ToLower(filepath.Ext(doc.FileName))
	mode := h.sessions.GetMode(chatID)

	switch {
	case mode == storage.ModeAwaitPreset || (mode != storage.ModeAwaitFont && presetExts[ext]):
		h.loadPreset(ctx, chatID, doc.FileID)
	case mode == storage.ModeAwaitFont || fontExts[ext]:
		h.registerFont(ctx, chatID, doc.FileID)
	default:
		_ = h.bot.SendText(ctx, chatID, "❌ Send a font (.ttf, .otf, .woff, .woff2) or a preset (.yaml, .toml).")
	}
}

func (h *Handler) registerFont(ctx context.Context, chatID int64, fileID string) {
	h.sessions.SetMode(chatID, storage.ModeNone)

	family, err := h.renderService.RegisterChatFont(ctx, chatID, fileID)
	if err != nil {
		h.fail(ctx, chatID, "font registration failed", "🚧 That font could not be loaded.", err)
		return
	}
	font := withFamily(h.sessions.Options(chatID).Font, family)
	h.sessions.Update(chatID, func(o *config.Options) { o.Font = &font })
	_ = h.bot.SendText(ctx, chatID, fmt.Sprintf("✅ Font installed, now using %s", font))
}

func (h *Handler) loadPreset(ctx context.Context, chatID int64, fileID string) {
	h.sessions.SetMode(chatID, storage.ModeNone)

	preset, err := h.renderService.DownloadPreset(ctx, fileID)
	if err != nil {
		h.fail(ctx, chatID, "preset load failed", "🚧 That preset could not be read.", err)
		return
	}
	// chat presets may not touch host files or the registry
	preset = preset.Shareable()
	if _, err := h.apply(chatID, func(o *config.Options) { *o = o.Merge(preset) }); err != nil {
		_ = h.bot.SendText(ctx, chatID, "❌ Preset rejected: "+err.Error())
		return
	}
	_ = h.bot.SendText(ctx, chatID, "✅ Preset applied.")
}

func (h *Handler) fail(ctx context.Context, chatID int64, logMsg, userMsg string, err error) {
	h.logger.Error(logMsg, "chat", chatID, "error", err)
	_ = h.bot.SendText(ctx, chatID, userMsg)
}

func getText(msg *telego.Message) string {
	if msg.Caption != "" {
		return msg.Caption
	}
	return msg.Text
}
