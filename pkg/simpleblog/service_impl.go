package simpleblog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// MediaURLPrefix is the public path prefix under which uploaded blobs are
// served read-only.
const MediaURLPrefix = "/media"

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	hasher     Hasher
	eventSink  EventSink
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend used for uploads
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithHasher sets the password hasher for the service
func WithHasher(hasher Hasher) Option {
	return func(s *service) {
		s.hasher = hasher
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.hasher == nil {
		return nil, fmt.Errorf("hasher is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	return s, nil
}

// Identity operations

func (s *service) Register(ctx context.Context, req RegisterUserRequest) (*User, error) {
	// Pre-check keeps the common duplicate case cheap; the unique index in the
	// repository remains the authoritative signal under concurrent registration.
	existing, err := s.repository.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, &UserError{Username: req.Username, Op: "register", Err: err}
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, &UserError{Username: req.Username, Op: "hash", Err: err}
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, &UserError{Username: req.Username, Op: "register", Err: err}
	}

	_ = s.eventSink.UserRegistered(ctx, user)

	return user, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repository.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, &UserError{Username: username, Op: "login", Err: err}
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, &UserError{Username: username, Op: "verify", Err: err}
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	_ = s.eventSink.UserLoggedIn(ctx, user)

	return user, nil
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*UserProfile, error) {
	user, err := s.repository.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// The stored record carries the password hash; only the profile projection
	// leaves this package.
	return user.Profile(), nil
}

// Post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	post := &Post{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageRef:    req.ImageRef,
		AuthorID:    req.AuthorID,
	}

	if err := s.repository.CreatePost(ctx, post); err != nil {
		return nil, &PostError{Op: "create", Err: err}
	}

	_ = s.eventSink.PostCreated(ctx, post)

	return post, nil
}

func (s *service) GetPost(ctx context.Context, id int64) (*Post, error) {
	return s.repository.GetPost(ctx, id)
}

func (s *service) ListPosts(ctx context.Context, category string) ([]PostSummary, error) {
	return s.repository.ListPosts(ctx, category)
}

func (s *service) UpdatePost(ctx context.Context, id int64, req UpdatePostRequest) error {
	post := &Post{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageRef:    req.ImageRef,
	}

	if err := s.repository.UpdatePost(ctx, post); err != nil {
		return &PostError{PostID: id, Op: "update", Err: err}
	}

	_ = s.eventSink.PostUpdated(ctx, post)

	return nil
}

func (s *service) DeletePost(ctx context.Context, id int64) error {
	// The referenced blob is left untouched; posts reference blobs without
	// owning them.
	if err := s.repository.DeletePost(ctx, id); err != nil {
		return &PostError{PostID: id, Op: "delete", Err: err}
	}

	_ = s.eventSink.PostDeleted(ctx, id)

	return nil
}

// Upload operations

func (s *service) UploadImage(ctx context.Context, originalName string, reader io.Reader) (*UploadResult, error) {
	if s.blobStore == nil {
		return nil, fmt.Errorf("no blob store configured")
	}

	key := generateObjectKey(originalName)

	if err := s.blobStore.Upload(ctx, key, reader); err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: err}
	}

	var size int64
	if meta, err := s.blobStore.GetObjectMeta(ctx, key); err == nil {
		size = meta.Size
	}
	_ = s.eventSink.ImageUploaded(ctx, key, size)

	return &UploadResult{
		ObjectKey:    key,
		OriginalName: originalName,
		Reference:    MediaURLPrefix + "/" + key,
	}, nil
}

func (s *service) GetImage(ctx context.Context, objectKey string) (io.ReadCloser, *ObjectMeta, error) {
	if s.blobStore == nil {
		return nil, nil, fmt.Errorf("no blob store configured")
	}

	meta, err := s.blobStore.GetObjectMeta(ctx, objectKey)
	if err != nil {
		return nil, nil, &StorageError{Key: objectKey, Op: "stat", Err: err}
	}

	rc, err := s.blobStore.Download(ctx, objectKey)
	if err != nil {
		return nil, nil, &StorageError{Key: objectKey, Op: "download", Err: err}
	}

	return rc, meta, nil
}

// generateObjectKey derives a collision-resistant object key from the upload
// time and the original file name. Nanosecond resolution makes concurrent
// collisions practically impossible; an upload without a usable name falls
// back to a random one.
func generateObjectKey(originalName string) string {
	name := filepath.Base(originalName)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = uuid.NewString() + ".bin"
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), name)
}
