package files

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
)

// FileSource is the part of the bot that resolves uploaded files.
type FileSource interface {
	GetFile(ctx context.Context, fileID string) (*File, error)
	FileDownloadURL(filePath string) string
}

type telegramFileManager struct {
	source  FileSource
	client  *retryablehttp.Client
	tempDir string
	maxSize int64
}

func NewTelegramFileManager(source FileSource, tempDir string, maxSize int64) (FileManager, error) {
	if tempDir == "" {
		tempDir = "temp"
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	return &telegramFileManager{
		source:  source,
		client:  getHTTPClient(),
		tempDir: tempDir,
		maxSize: maxSize,
	}, nil
}

func (fm *telegramFileManager) DownloadToTemp(ctx context.Context, fileID string) (string, func(), error) {
	tf, err := fm.source.GetFile(ctx, fileID)
	if err != nil {
		return "", nil, fmt.Errorf("GetFile error: %w", err)
	}
	if tf == nil || tf.FilePath == "" {
		return "", nil, fmt.Errorf("invalid file info from telegram for id %s", fileID)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fm.source.FileDownloadURL(tf.FilePath), nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := fm.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", nil, fmt.Errorf("download failed: status %s, body: %s", resp.Status, string(body))
	}

	out, err := os.CreateTemp(fm.tempDir, "*-"+filepath.Base(tf.FilePath))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create local file: %w", err)
	}
	localName := out.Name()

	body := io.Reader(resp.Body)
	if fm.maxSize > 0 {
		body = io.LimitReader(resp.Body, fm.maxSize)
	}
	_, err = io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(localName)
		return "", nil, fmt.Errorf("failed to save downloaded file: %w", err)
	}

	cleanup := func() {
		_ = os.Remove(localName)
	}

	return localName, cleanup, nil
}
