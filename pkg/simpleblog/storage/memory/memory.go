package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Backend is an in-memory implementation of the simpleblog.BlobStore interface
type Backend struct {
	mu         sync.RWMutex
	objects    map[string][]byte
	uploadedAt map[string]time.Time
}

// New creates a new in-memory storage backend
func New() simpleblog.BlobStore {
	return &Backend{
		objects:    make(map[string][]byte),
		uploadedAt: make(map[string]time.Time),
	}
}

// Upload uploads content directly
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; exists {
		return errors.New("object already exists")
	}

	b.objects[objectKey] = data
	b.uploadedAt[objectKey] = time.Now()
	return nil
}

// Download downloads content directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return errors.New("object not found")
	}

	delete(b.objects, objectKey)
	delete(b.uploadedAt, objectKey)
	return nil
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*simpleblog.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	meta := &simpleblog.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(data)),
		ContentType: http.DetectContentType(data),
		UpdatedAt:   b.uploadedAt[objectKey],
		Metadata:    map[string]string{},
	}

	return meta, nil
}
