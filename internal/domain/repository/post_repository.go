package repository

import (
	"context"
	"errors"

	"github.com/ajisatria/go-blog-api/internal/domain/entity"
)

// Store errors surfaced by repository implementations. The application
// layer translates them into API failures.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// ListFilter narrows and pages a post listing. Zero values mean "no filter";
// Published is a tri-state pointer because false is a meaningful filter.
type ListFilter struct {
	Query     string
	Tag       string
	AuthorID  string
	Published *bool
	Sort      string // repository-validated sort expression, e.g. "-created_at"
	Page      int
	Limit     int
}

// Offset returns the row offset implied by Page/Limit.
func (f ListFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

// PostRepository defines the interface for post-related database operations.
// List returns posts with authors denormalized plus the unpaged total.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, f ListFilter) ([]entity.Post, int, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error

	// ToggleLike removes the user's like when present, adds it otherwise.
	// Returns the resulting like count and whether the user now likes the post.
	ToggleLike(ctx context.Context, postID, userID string) (int, bool, error)

	AddComment(ctx context.Context, c *entity.Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*entity.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListComments(ctx context.Context, postID string) ([]entity.Comment, error)
}
