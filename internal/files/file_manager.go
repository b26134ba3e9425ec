package files

import (
	"context"
)

// File describes an upload stored on the bot platform.
type File struct {
	FileID   string
	FilePath string
}

type FileManager interface {
	DownloadToTemp(ctx context.Context, fileID string) (localPath string, cleanup func(), err error)
}
