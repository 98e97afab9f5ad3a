package simpleblog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrUsernameTaken indicates a registration attempt with an existing username
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates a password mismatch during login
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrUploadFailed indicates an upload operation failed
	ErrUploadFailed = errors.New("upload failed")
)

// UserError represents an error related to user operations
type UserError struct {
	Username string
	Op       string
	Err      error
}

func (e *UserError) Error() string {
	return fmt.Sprintf("user operation %s failed for %q: %v", e.Op, e.Username, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// PostError represents an error related to post operations
type PostError struct {
	PostID int64
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for post %d: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
