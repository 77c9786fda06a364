package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	"github.com/ajisatria/go-blog-api/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, slug, content, author_id, tags, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Slug, p.Content, p.AuthorID, p.Tags, p.Published)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isConflict(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *PostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)
	`, slug).Scan(&exists)
	return exists, err
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	p := &entity.Post{Author: &entity.Author{}}
	var role string

	row := r.pool.QueryRow(ctx, `
		SELECT p.id, p.title, p.slug, p.content, p.author_id, p.tags, p.published,
		       p.created_at, p.updated_at,
		       u.username, u.role
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.slug = $1
	`, slug)
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.AuthorID, &p.Tags,
		&p.Published, &p.CreatedAt, &p.UpdatedAt, &p.Author.Username, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	p.Author.ID = p.AuthorID
	p.Author.Role = entity.Role(role)

	likes, err := r.listLikes(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.LikedBy = likes
	p.LikeCount = len(likes)

	comments, err := r.ListComments(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Comments = comments
	return p, nil
}

func (r *PostRepository) listLikes(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := []string{}
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		likes = append(likes, uid)
	}
	return likes, rows.Err()
}

// orderings re-validates the sort expression on the repository side so no
// caller input ever reaches ORDER BY verbatim.
var orderings = map[string]string{
	"created_at":  "p.created_at ASC",
	"-created_at": "p.created_at DESC",
	"updated_at":  "p.updated_at ASC",
	"-updated_at": "p.updated_at DESC",
	"title":       "p.title ASC",
	"-title":      "p.title DESC",
}

func (r *PostRepository) List(ctx context.Context, f repository.ListFilter) ([]entity.Post, int, error) {
	where := []string{}
	args := []any{}

	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Query != "" {
		add("p.search @@ websearch_to_tsquery('english', $%d)", f.Query)
	}
	if f.Tag != "" {
		add("$%d = ANY(p.tags)", f.Tag)
	}
	if f.AuthorID != "" {
		add("p.author_id::text = $%d", f.AuthorID)
	}
	if f.Published != nil {
		add("p.published = $%d", *f.Published)
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM posts p "+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order, ok := orderings[f.Sort]
	if !ok {
		order = orderings["-created_at"]
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.slug, p.content, p.author_id, p.tags, p.published,
		       p.created_at, p.updated_at,
		       u.username, u.role,
		       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
		       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
		FROM posts p
		JOIN users u ON u.id = p.author_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, clause, order, len(args)+1, len(args)+2)
	args = append(args, limit, f.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []entity.Post{}
	for rows.Next() {
		p := entity.Post{Author: &entity.Author{}}
		var role string
		var commentCount int
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.AuthorID, &p.Tags,
			&p.Published, &p.CreatedAt, &p.UpdatedAt,
			&p.Author.Username, &role, &p.LikeCount, &commentCount); err != nil {
			return nil, 0, err
		}
		p.Author.ID = p.AuthorID
		p.Author.Role = entity.Role(role)
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET title = $1, slug = $2, content = $3, tags = $4, published = $5, updated_at = now()
		WHERE id = $6
	`, p.Title, p.Slug, p.Content, p.Tags, p.Published, p.ID)
	if err != nil {
		if isConflict(err) {
			return repository.ErrConflict
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ToggleLike is a delete-else-insert inside one transaction so concurrent
// toggles from the same user settle on a single membership row at most.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (int, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return 0, false, err
	}
	liked := res.RowsAffected() == 0
	if liked {
		if _, err := tx.Exec(ctx, `
			INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT (post_id, user_id) DO NOTHING
		`, postID, userID); err != nil {
			return 0, false, err
		}
	}

	var count int
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM post_likes WHERE post_id = $1
	`, postID).Scan(&count); err != nil {
		return 0, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, false, err
	}
	return count, liked, nil
}

func (r *PostRepository) AddComment(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.PostID, c.AuthorID, c.Content)
	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *PostRepository) GetComment(ctx context.Context, postID, commentID string) (*entity.Comment, error) {
	c := &entity.Comment{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, post_id, author_id, content, created_at, updated_at
		FROM comments
		WHERE post_id = $1 AND id::text = $2
	`, postID, commentID)
	if err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *PostRepository) DeleteComment(ctx context.Context, postID, commentID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM comments WHERE post_id = $1 AND id::text = $2
	`, postID, commentID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) ListComments(ctx context.Context, postID string) ([]entity.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at, c.updated_at,
		       u.username, u.role
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []entity.Comment{}
	for rows.Next() {
		c := entity.Comment{Author: &entity.Author{}}
		var role string
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt,
			&c.UpdatedAt, &c.Author.Username, &role); err != nil {
			return nil, err
		}
		c.Author.ID = c.AuthorID
		c.Author.Role = entity.Role(role)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

var _ repository.PostRepository = (*PostRepository)(nil)
