package simpleblog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// UserRegistered does nothing and returns nil
func (n *NoopEventSink) UserRegistered(ctx context.Context, user *User) error {
	return nil
}

// UserLoggedIn does nothing and returns nil
func (n *NoopEventSink) UserLoggedIn(ctx context.Context, user *User) error {
	return nil
}

// PostCreated does nothing and returns nil
func (n *NoopEventSink) PostCreated(ctx context.Context, post *Post) error {
	return nil
}

// PostUpdated does nothing and returns nil
func (n *NoopEventSink) PostUpdated(ctx context.Context, post *Post) error {
	return nil
}

// PostDeleted does nothing and returns nil
func (n *NoopEventSink) PostDeleted(ctx context.Context, postID int64) error {
	return nil
}

// ImageUploaded does nothing and returns nil
func (n *NoopEventSink) ImageUploaded(ctx context.Context, objectKey string, size int64) error {
	return nil
}

// SlogEventSink logs every event through slog, tagging each with a generated
// event id so audit lines can be correlated downstream.
type SlogEventSink struct {
	logger *slog.Logger
}

// NewSlogEventSink creates an event sink backed by the given slog logger.
func NewSlogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogEventSink{logger: logger}
}

func (s *SlogEventSink) UserRegistered(ctx context.Context, user *User) error {
	s.logger.InfoContext(ctx, "user registered",
		"event_id", uuid.NewString(), "user_id", user.ID, "username", user.Username)
	return nil
}

func (s *SlogEventSink) UserLoggedIn(ctx context.Context, user *User) error {
	s.logger.InfoContext(ctx, "user logged in",
		"event_id", uuid.NewString(), "user_id", user.ID, "username", user.Username)
	return nil
}

func (s *SlogEventSink) PostCreated(ctx context.Context, post *Post) error {
	s.logger.InfoContext(ctx, "post created",
		"event_id", uuid.NewString(), "post_id", post.ID, "author_id", post.AuthorID)
	return nil
}

func (s *SlogEventSink) PostUpdated(ctx context.Context, post *Post) error {
	s.logger.InfoContext(ctx, "post updated",
		"event_id", uuid.NewString(), "post_id", post.ID)
	return nil
}

func (s *SlogEventSink) PostDeleted(ctx context.Context, postID int64) error {
	s.logger.InfoContext(ctx, "post deleted",
		"event_id", uuid.NewString(), "post_id", postID)
	return nil
}

func (s *SlogEventSink) ImageUploaded(ctx context.Context, objectKey string, size int64) error {
	s.logger.InfoContext(ctx, "image uploaded",
		"event_id", uuid.NewString(), "object_key", objectKey, "size_bytes", size)
	return nil
}
