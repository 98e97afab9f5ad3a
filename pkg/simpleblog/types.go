package simpleblog

import "time"

// User represents a registered author. PasswordHash is never serialized;
// external consumers receive a UserProfile instead.
type User struct {
	ID           int64     `json:"id_usuario"`
	Username     string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile returns the external read model for the user. The password hash is
// excluded structurally rather than by caller discipline.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// UserProfile is the user projection exposed at the API boundary.
type UserProfile struct {
	ID       int64  `json:"id_usuario"`
	Username string `json:"nombre"`
	Email    string `json:"email"`
}

// Post represents a blog post bound to an author and category. ImageRef is the
// reference path of the uploaded image in the blob store, empty when the post
// has no image. ID and AuthorID are immutable after creation.
type Post struct {
	ID          int64  `json:"id_post"`
	Title       string `json:"titulo"`
	Description string `json:"descripcion"`
	Category    string `json:"categoria"`
	ImageRef    string `json:"imagen"`
	AuthorID    int64  `json:"autor"`
}

// Summary returns the listing projection of the post.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:       p.ID,
		Title:    p.Title,
		ImageRef: p.ImageRef,
		Category: p.Category,
	}
}

// PostSummary is the reduced post projection used by listings.
type PostSummary struct {
	ID       int64  `json:"id_post"`
	Title    string `json:"titulo"`
	ImageRef string `json:"imagen"`
	Category string `json:"categoria"`
}
