package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Repository implements simpleblog.Repository using in-memory storage
type Repository struct {
	mu          sync.RWMutex
	users       map[int64]*simpleblog.User
	usersByName map[string]int64
	posts       map[int64]*simpleblog.Post
	nextUserID  int64
	nextPostID  int64
}

// New creates a new in-memory repository
func New() simpleblog.Repository {
	return &Repository{
		users:       make(map[int64]*simpleblog.User),
		usersByName: make(map[string]int64),
		posts:       make(map[int64]*simpleblog.Post),
	}
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *simpleblog.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The name index plays the role of the unique constraint: check and insert
	// happen under the same lock, so concurrent registrations cannot both pass.
	if _, exists := r.usersByName[user.Username]; exists {
		return simpleblog.ErrUsernameTaken
	}

	r.nextUserID++
	user.ID = r.nextUserID

	userCopy := *user
	r.users[user.ID] = &userCopy
	r.usersByName[user.Username] = user.ID

	return nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*simpleblog.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usersByName[username]
	if !exists {
		return nil, simpleblog.ErrUserNotFound
	}

	userCopy := *r.users[id]
	return &userCopy, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*simpleblog.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, simpleblog.ErrUserNotFound
	}

	userCopy := *user
	return &userCopy, nil
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *simpleblog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextPostID++
	post.ID = r.nextPostID

	postCopy := *post
	r.posts[post.ID] = &postCopy

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id int64) (*simpleblog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, simpleblog.ErrPostNotFound
	}

	postCopy := *post
	return &postCopy, nil
}

func (r *Repository) ListPosts(ctx context.Context, category string) ([]simpleblog.PostSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]simpleblog.PostSummary, 0, len(r.posts))
	for _, post := range r.posts {
		if category != "" && post.Category != category {
			continue
		}
		summaries = append(summaries, post.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})

	return summaries, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *simpleblog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.posts[post.ID]
	if !exists {
		// Matching an absent id is reported as success, mirroring a SQL UPDATE
		// that affects zero rows.
		return nil
	}

	existing.Title = post.Title
	existing.Description = post.Description
	existing.Category = post.Category
	existing.ImageRef = post.ImageRef

	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}
