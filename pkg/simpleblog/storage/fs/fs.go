package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Backend is a filesystem implementation of the simpleblog.BlobStore interface
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing files
}

// New creates a new filesystem storage backend
func New(config Config) (simpleblog.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

// BaseDir returns the directory files are stored under, so callers can serve
// it read-only over HTTP.
func (b *Backend) BaseDir() string {
	return b.baseDir
}

// Upload writes the payload to the filesystem. An existing blob under the same
// key is never overwritten.
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	filePath := filepath.Join(b.baseDir, objectKey)

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("object already exists: %s", objectKey)
		}
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Download downloads content directly from the filesystem
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	filePath := filepath.Join(b.baseDir, objectKey)

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, errors.New("object not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete deletes content from the filesystem
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath := filepath.Join(b.baseDir, objectKey)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return errors.New("object not found")
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetObjectMeta retrieves metadata for an object in the filesystem
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*simpleblog.ObjectMeta, error) {
	filePath := filepath.Join(b.baseDir, objectKey)

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, errors.New("object not found")
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	contentType := "application/octet-stream"
	if file, err := os.Open(filePath); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	meta := &simpleblog.ObjectMeta{
		Key:         objectKey,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
		Metadata:    map[string]string{"content_type": contentType},
	}

	return meta, nil
}
