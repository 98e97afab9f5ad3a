// Package api exposes the blog operations over the legacy JSON wire contract.
// Paths and field names are fixed by the existing frontend (Spanish route and
// column names); validation failures are reported with a success-shaped
// {"status":"failed"} body, while storage and hashing failures map to
// 500-class responses that carry no internal detail.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// maxUploadBytes bounds multipart form memory usage for image uploads.
const maxUploadBytes = 32 << 20

// Handler handles the blog HTTP endpoints
type Handler struct {
	service simpleblog.Service
}

// NewHandler creates a new handler backed by the given service
func NewHandler(service simpleblog.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for the blog endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload", h.Upload)
	r.Post("/registro", h.Register)
	r.Post("/", h.Login)
	r.Get("/inicio", h.ListPosts)
	r.Get("/categoria", h.ListPostsByCategory)
	r.Get("/postsById", h.GetPost)
	r.Delete("/postsById", h.DeletePost)
	r.Get("/usuariosById", h.GetUser)
	r.Post("/crearPost", h.CreatePost)
	r.Put("/editarPost/{id}", h.UpdatePost)
	r.Get(simpleblog.MediaURLPrefix+"/{key}", h.ServeMedia)

	return r
}

// RegisterRequest represents the registration form body
type RegisterRequest struct {
	Username string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login form body
type LoginRequest struct {
	Username string `json:"nombre"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login. The user id is echoed back;
// no session token is issued.
type LoginResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"idUsuario"`
}

// PostRequest represents the create/edit post body
type PostRequest struct {
	Title       string `json:"titulo"`
	Description string `json:"descripcion"`
	Category    string `json:"categoria"`
	ImageRef    string `json:"file"`
	AuthorID    int64  `json:"autor"`
}

func statusFailed(w http.ResponseWriter, r *http.Request, code int) {
	render.Status(r, code)
	render.JSON(w, r, map[string]string{"status": "failed"})
}

// Upload stores a multipart image and returns its media reference path
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Error("failed to parse multipart form", "error", err)
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("missing file field", "error", err)
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.service.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		slog.Error("failed to store upload", "file_name", header.Filename, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	slog.Info("file uploaded", "object_key", result.ObjectKey)
	render.JSON(w, r, result)
}

// Register creates a new user account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := h.service.Register(r.Context(), simpleblog.RegisterUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, simpleblog.ErrUsernameTaken) {
			slog.Info("registration rejected", "username", req.Username, "reason", "duplicate username")
			statusFailed(w, r, http.StatusOK)
			return
		}
		slog.Error("registration failed", "username", req.Username, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"err": "Error interno al registrar usuario"})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"message": "Registro realizado con éxito"})
}

// Login verifies credentials and echoes back the user id
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// The wire response does not distinguish unknown users from wrong
		// passwords; only internal failures get a 500.
		if errors.Is(err, simpleblog.ErrUserNotFound) || errors.Is(err, simpleblog.ErrInvalidCredentials) {
			slog.Info("login rejected", "username", req.Username)
			statusFailed(w, r, http.StatusOK)
			return
		}
		slog.Error("login failed", "username", req.Username, "error", err)
		statusFailed(w, r, http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, LoginResponse{
		Message: "Inicio de sesión aprobado. Accediendo...",
		UserID:  user.ID,
	})
}

// ListPosts returns the full post listing
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListPosts(r.Context(), "")
	if err != nil {
		slog.Error("failed to list posts", "error", err)
		statusFailed(w, r, http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, summaries)
}

// ListPostsByCategory returns the post listing, filtered when a categoria
// query parameter is supplied. Without it the full listing is returned, which
// is what existing clients expect.
func (h *Handler) ListPostsByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("categoria")

	summaries, err := h.service.ListPosts(r.Context(), category)
	if err != nil {
		slog.Error("failed to list posts", "category", category, "error", err)
		statusFailed(w, r, http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, summaries)
}

// GetPost returns the full post record by id
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, simpleblog.ErrPostNotFound) {
			statusFailed(w, r, http.StatusNotFound)
			return
		}
		slog.Error("failed to get post", "post_id", id, "error", err)
		statusFailed(w, r, http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, post)
}

// GetUser returns the author profile for a post. The password hash never
// reaches this handler; the service returns the profile projection only.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	profile, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, simpleblog.ErrUserNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"status": "failed", "message": "Usuario no encontrado"})
			return
		}
		slog.Error("failed to get user", "user_id", id, "error", err)
		statusFailed(w, r, http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, profile)
}

// CreatePost creates a new post bound to its author
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(r.Context(), simpleblog.CreatePostRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageRef:    req.ImageRef,
		AuthorID:    req.AuthorID,
	})
	if err != nil {
		slog.Error("failed to create post", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"message": "Error al crear el post"})
		return
	}

	slog.Info("post created", "post_id", post.ID, "author_id", post.AuthorID)
	render.JSON(w, r, map[string]string{"message": "Post creado con éxito"})
}

// UpdatePost replaces the mutable fields of a post
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.service.UpdatePost(r.Context(), id, simpleblog.UpdatePostRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		slog.Error("failed to update post", "post_id", id, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"err": "Error al editar el post"})
		return
	}

	render.JSON(w, r, map[string]string{"message": "Post actualizado correctamente"})
}

// DeletePost removes a post. The referenced blob stays in the store.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeletePost(r.Context(), id); err != nil {
		slog.Error("failed to delete post", "post_id", id, "error", err)
		statusFailed(w, r, http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, map[string]string{"message": "Publicación eliminada correctamente"})
}

// ServeMedia streams an uploaded blob read-only
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	rc, meta, err := h.service.GetImage(r.Context(), key)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to stream media", "object_key", key, "error", err)
	}
}
