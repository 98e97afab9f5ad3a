package simpleblog

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for storage backends
type BlobStore interface {
	// Upload uploads content directly
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download downloads content directly
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete deletes content
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for a stored object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// Repository defines the interface for user and post persistence.
//
// Every write returns only after the storage layer has acknowledged it; there
// are no fire-and-forget inserts. Username uniqueness is enforced by the
// storage layer itself (unique index), and CreateUser reports a violation as
// ErrUsernameTaken.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// Post operations
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id int64) (*Post, error)
	ListPosts(ctx context.Context, category string) ([]PostSummary, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id int64) error
}

// Hasher defines the credential hashing primitive.
type Hasher interface {
	// Hash applies a salted one-way transform to the password. Equal inputs
	// yield different outputs across calls; the salt is embedded in the result.
	Hash(password string) (string, error)

	// Verify compares a password against a previously produced hash. A
	// mismatch returns (false, nil); a malformed hash returns an error.
	Verify(password, hash string) (bool, error)
}

// EventSink defines the interface for audit event handling
type EventSink interface {
	// UserRegistered is fired when a user completes registration
	UserRegistered(ctx context.Context, user *User) error

	// UserLoggedIn is fired when a login succeeds
	UserLoggedIn(ctx context.Context, user *User) error

	// PostCreated is fired when a post is created
	PostCreated(ctx context.Context, post *Post) error

	// PostUpdated is fired when a post is updated
	PostUpdated(ctx context.Context, post *Post) error

	// PostDeleted is fired when a post is deleted
	PostDeleted(ctx context.Context, postID int64) error

	// ImageUploaded is fired when an image upload completes
	ImageUploaded(ctx context.Context, objectKey string, size int64) error
}

// Service is the main application interface covering identity, content and
// upload operations.
type Service interface {
	// Identity operations
	Register(ctx context.Context, req RegisterUserRequest) (*User, error)
	Login(ctx context.Context, username, password string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*UserProfile, error)

	// Post operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	ListPosts(ctx context.Context, category string) ([]PostSummary, error)
	UpdatePost(ctx context.Context, id int64, req UpdatePostRequest) error
	DeletePost(ctx context.Context, id int64) error

	// Upload operations
	UploadImage(ctx context.Context, originalName string, reader io.Reader) (*UploadResult, error)
	GetImage(ctx context.Context, objectKey string) (io.ReadCloser, *ObjectMeta, error)
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	Metadata    map[string]string
}
