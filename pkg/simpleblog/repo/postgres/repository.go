package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpleblog.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) simpleblog.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) simpleblog.Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps low-level postgres errors onto domain errors
// without leaking SQL detail to callers.
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			// The unique index on usuarios.nombre is the authoritative
			// duplicate-username signal; the service-level pre-check only
			// narrows the window.
			return simpleblog.ErrUsernameTaken
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *simpleblog.User) error {
	query := `
		INSERT INTO usuarios (nombre, email, password, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id_usuario`

	err := r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		return r.handlePostgresError("create user", err)
	}

	return nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*simpleblog.User, error) {
	query := `
		SELECT id_usuario, nombre, email, password, created_at
		FROM usuarios WHERE nombre = $1`

	var user simpleblog.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user by username", err)
	}

	return &user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*simpleblog.User, error) {
	query := `
		SELECT id_usuario, nombre, email, password, created_at
		FROM usuarios WHERE id_usuario = $1`

	var user simpleblog.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user by id", err)
	}

	return &user, nil
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *simpleblog.Post) error {
	query := `
		INSERT INTO posts (titulo, descripcion, categoria, imagen, autor)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_post`

	err := r.db.QueryRow(ctx, query,
		post.Title, post.Description, post.Category, post.ImageRef, post.AuthorID).Scan(&post.ID)
	if err != nil {
		return r.handlePostgresError("create post", err)
	}

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id int64) (*simpleblog.Post, error) {
	query := `
		SELECT id_post, titulo, descripcion, categoria, imagen, autor
		FROM posts WHERE id_post = $1`

	var post simpleblog.Post
	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Description, &post.Category, &post.ImageRef, &post.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrPostNotFound
		}
		return nil, r.handlePostgresError("get post", err)
	}

	return &post, nil
}

func (r *Repository) ListPosts(ctx context.Context, category string) ([]simpleblog.PostSummary, error) {
	query := `
		SELECT id_post, titulo, imagen, categoria
		FROM posts`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE categoria = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id_post`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}
	defer rows.Close()

	summaries := make([]simpleblog.PostSummary, 0)
	for rows.Next() {
		var s simpleblog.PostSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.ImageRef, &s.Category); err != nil {
			return nil, r.handlePostgresError("scan post summary", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}

	return summaries, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *simpleblog.Post) error {
	query := `
		UPDATE posts
		SET titulo = $2, descripcion = $3, imagen = $4, categoria = $5
		WHERE id_post = $1`

	// Zero rows affected is not an error; an update against an absent id is a
	// no-op success.
	_, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Description, post.ImageRef, post.Category)
	if err != nil {
		return r.handlePostgresError("update post", err)
	}

	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id_post = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete post", err)
	}

	return nil
}
