package bot

import (
	"context"

	"github.com/mymmrac/telego"

	"text2png/internal/files"
)

// Bot is the chat transport the handlers talk to.
type Bot interface {
	Start(ctx context.Context, handler func(context.Context, telego.Update)) error

	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, filePath string) error
	SendDocument(ctx context.Context, chatID int64, filePath string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	// SendFileAuto sends a photo, or a document when the file is too big
	// for Telegram to accept as a photo.
	SendFileAuto(ctx context.Context, chatID int64, filePath string) error

	GetFile(ctx context.Context, fileID string) (*files.File, error)
	FileDownloadURL(filePath string) string
}
