package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	repo "github.com/ajisatria/go-blog-api/internal/domain/repository"
	"github.com/ajisatria/go-blog-api/pkg/helpers"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// PostService handles post CRUD, likes and comments. The Elasticsearch
// client is optional; when nil the search mirror is a no-op.
type PostService struct {
	Posts        repo.PostRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESPostsIndex string
}

func NewPostService(posts repo.PostRepository, logger *logrus.Logger, es *elasticsearch.Client, esPostsIndex string) *PostService {
	return &PostService{Posts: posts, Logger: logger, ES: es, ESPostsIndex: esPostsIndex}
}

type CreatePostInput struct {
	Title     string
	Content   string
	Tags      []string
	Published *bool
}

// Create persists a post authored by the caller. A slug collision gets a
// millisecond-timestamp suffix so two identical titles never collide.
func (s *PostService) Create(ctx context.Context, author *entity.User, in CreatePostInput) (*entity.Post, error) {
	slug := helpers.Slugify(in.Title)
	taken, err := s.Posts.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		slug = slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	p := &entity.Post{
		Title:     in.Title,
		Slug:      slug,
		Content:   in.Content,
		AuthorID:  author.ID,
		Tags:      tags,
		Published: published,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Author = &entity.Author{ID: author.ID, Username: author.Username, Role: author.Role}
	p.LikedBy = []string{}
	p.Comments = []entity.Comment{}
	s.indexPost(ctx, p)
	return p, nil
}

type ListPostsInput struct {
	Query     string
	Tag       string
	AuthorID  string
	Published *bool
	Sort      string
	Page      int
	Limit     int
}

type ListPostsResult struct {
	Items []entity.Post
	Total int
	Page  int
	Limit int
	Pages int
}

// sortFields whitelists list orderings; keys cover both the API's camelCase
// spelling and the column name.
var sortFields = map[string]string{
	"createdat":  "created_at",
	"created_at": "created_at",
	"updatedat":  "updated_at",
	"updated_at": "updated_at",
	"title":      "title",
}

func normalizeSort(expr string) string {
	desc := strings.HasPrefix(expr, "-")
	field := strings.ToLower(strings.TrimPrefix(expr, "-"))
	col, ok := sortFields[field]
	if !ok {
		return "-created_at"
	}
	if desc {
		return "-" + col
	}
	return col
}

// List runs a filtered, paginated query. Authors come back denormalized.
func (s *PostService) List(ctx context.Context, in ListPostsInput) (*ListPostsResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	f := repo.ListFilter{
		Query:     in.Query,
		Tag:       in.Tag,
		AuthorID:  in.AuthorID,
		Published: in.Published,
		Sort:      normalizeSort(in.Sort),
		Page:      page,
		Limit:     limit,
	}
	items, total, err := s.Posts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return &ListPostsResult{Items: items, Total: total, Page: page, Limit: limit, Pages: pages}, nil
}

// Get returns the post with that slug, author denormalized, comments and
// likes loaded.
func (s *PostService) Get(ctx context.Context, slug string) (*entity.Post, error) {
	p, err := s.Posts.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

type UpdatePostInput struct {
	Title     *string
	Content   *string
	Tags      []string
	Published *bool
}

func (in UpdatePostInput) empty() bool {
	return in.Title == nil && in.Content == nil && in.Tags == nil && in.Published == nil
}

// Update applies a field-by-field overwrite after the owner-or-admin check.
// A title change re-slugs using a suffix from the post's own id, which keeps
// the new slug unique without a global re-check.
func (s *PostService) Update(ctx context.Context, slug string, caller *entity.User, in UpdatePostInput) (*entity.Post, error) {
	if in.empty() {
		return nil, NewValidationError("payload", "at least one of title, content, tags, published is required")
	}
	p, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != caller.ID && !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	if in.Title != nil {
		p.Title = *in.Title
		p.Slug = helpers.Slugify(*in.Title) + "-" + idSuffix(p.ID)
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if in.Published != nil {
		p.Published = *in.Published
	}

	if err := s.Posts.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.indexPost(ctx, p)
	return p, nil
}

// idSuffix returns a short, stable disambiguator derived from a post id.
func idSuffix(id string) string {
	hex := strings.ReplaceAll(id, "-", "")
	if len(hex) <= 6 {
		return hex
	}
	return hex[len(hex)-6:]
}

// Remove deletes the post; its comments go with it.
func (s *PostService) Remove(ctx context.Context, slug string, caller *entity.User) error {
	p, err := s.Get(ctx, slug)
	if err != nil {
		return err
	}
	if p.AuthorID != caller.ID && !caller.IsAdmin() {
		return ErrForbidden
	}
	if err := s.Posts.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.removeFromIndex(ctx, p.ID)
	return nil
}

// ToggleLike flips the caller's like on the post: present removes, absent
// adds. Two consecutive calls return opposite states.
func (s *PostService) ToggleLike(ctx context.Context, slug string, caller *entity.User) (int, bool, error) {
	p, err := s.Get(ctx, slug)
	if err != nil {
		return 0, false, err
	}
	return s.Posts.ToggleLike(ctx, p.ID, caller.ID)
}

// AddComment appends a comment authored by the caller and returns the full
// updated list.
func (s *PostService) AddComment(ctx context.Context, slug string, caller *entity.User, content string) ([]entity.Comment, error) {
	p, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	c := &entity.Comment{PostID: p.ID, AuthorID: caller.ID, Content: content}
	if err := s.Posts.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return s.Posts.ListComments(ctx, p.ID)
}

// RemoveComment deletes a single comment after the comment-author-or-admin
// check and returns the remaining list.
func (s *PostService) RemoveComment(ctx context.Context, slug, commentID string, caller *entity.User) ([]entity.Comment, error) {
	p, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	c, err := s.Posts.GetComment(ctx, p.ID, commentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if c.AuthorID != caller.ID && !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.Posts.DeleteComment(ctx, p.ID, commentID); err != nil {
		return nil, err
	}
	return s.Posts.ListComments(ctx, p.ID)
}

// indexPost mirrors a post into Elasticsearch, best effort. Failures are
// logged and never surface to the caller.
func (s *PostService) indexPost(ctx context.Context, p *entity.Post) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         p.ID,
		"title":      p.Title,
		"slug":       p.Slug,
		"content":    p.Content,
		"tags":       p.Tags,
		"published":  p.Published,
		"author_id":  p.AuthorID,
		"created_at": p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESPostsIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("post_id", p.ID).Warn("es index response error")
	}
}

func (s *PostService) removeFromIndex(ctx context.Context, postID string) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESPostsIndex, DocumentID: postID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", postID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over title, content and tags in the
// Elasticsearch mirror.
func (s *PostService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content", "tags"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESPostsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
