// Package simpleblog implements the backend for a small blogging application:
// user registration and login with bcrypt-hashed credentials, image uploads
// into a pluggable blob store, and create/read/update/delete operations over
// posts bound to an author and category.
//
// It exposes a single Service interface orchestrating identity, content and
// upload operations. Implementations of repositories (memory, Postgres) and
// blob stores (memory, filesystem, S3) are provided under subpackages; the
// HTTP layer in the api subpackage maps the service onto the fixed JSON wire
// contract expected by the existing frontend.
//
// Secrets never cross the package boundary: lookups by id return the
// UserProfile projection, which structurally excludes the password hash.
package simpleblog
