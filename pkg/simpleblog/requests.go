package simpleblog

// RegisterUserRequest contains parameters for registering a new user
type RegisterUserRequest struct {
	Username string
	Email    string
	Password string
}

// CreatePostRequest contains parameters for creating a post
type CreatePostRequest struct {
	Title       string
	Description string
	Category    string
	ImageRef    string
	AuthorID    int64
}

// UpdatePostRequest contains the replacement values for the four mutable post
// fields. Author and id are immutable and therefore absent.
type UpdatePostRequest struct {
	Title       string
	Description string
	Category    string
	ImageRef    string
}

// UploadResult describes a stored upload
type UploadResult struct {
	ObjectKey    string `json:"-"`
	OriginalName string `json:"-"`
	Reference    string `json:"file"`
}
