package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	"github.com/ajisatria/go-blog-api/internal/domain/repository"
)

// In-memory repository fakes. They enforce the same uniqueness rules the
// real store does so conflict paths are exercised.

type fakeUserRepo struct {
	mu               sync.Mutex
	seq              int
	users            map[string]*entity.User
	conflictOnCreate bool
	getByEmailErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictOnCreate {
		return repository.ErrConflict
	}
	for _, ex := range r.users {
		if ex.Email == u.Email || ex.Username == u.Username {
			return repository.ErrConflict
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("u%06d", r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getByEmailErr != nil {
		return nil, r.getByEmailErr
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakePostRepo struct {
	mu       sync.Mutex
	seq      int
	now      time.Time
	order    []string
	posts    map[string]*entity.Post
	likes    map[string][]string
	comments map[string][]entity.Comment
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		now:      time.Unix(1700000000, 0),
		posts:    map[string]*entity.Post{},
		likes:    map[string][]string{},
		comments: map[string][]entity.Comment{},
	}
}

func (r *fakePostRepo) tick() time.Time {
	r.now = r.now.Add(time.Second)
	return r.now
}

func (r *fakePostRepo) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.posts {
		if ex.Slug == p.Slug {
			return repository.ErrConflict
		}
	}
	r.seq++
	p.ID = fmt.Sprintf("p%06d", r.seq)
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.posts[p.ID] = &cp
	r.order = append(r.order, p.ID)
	return nil
}

func (r *fakePostRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) loadLocked(p *entity.Post) *entity.Post {
	cp := *p
	cp.Author = &entity.Author{ID: p.AuthorID, Username: "user-" + p.AuthorID, Role: entity.RoleUser}
	cp.LikedBy = append([]string{}, r.likes[p.ID]...)
	cp.LikeCount = len(cp.LikedBy)
	cp.Comments = append([]entity.Comment{}, r.comments[p.ID]...)
	return &cp
}

func (r *fakePostRepo) GetBySlug(_ context.Context, slug string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug {
			return r.loadLocked(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePostRepo) List(_ context.Context, f repository.ListFilter) ([]entity.Post, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []*entity.Post{}
	for _, id := range r.order {
		p, ok := r.posts[id]
		if !ok {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Content), strings.ToLower(f.Query)) {
			continue
		}
		if f.Tag != "" && !contains(p.Tags, f.Tag) {
			continue
		}
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		if f.Published != nil && p.Published != *f.Published {
			continue
		}
		matched = append(matched, p)
	}

	desc := strings.HasPrefix(f.Sort, "-")
	field := strings.TrimPrefix(f.Sort, "-")
	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		switch field {
		case "title":
			less = matched[i].Title < matched[j].Title
		case "updated_at":
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if desc {
			return !less
		}
		return less
	})

	total := len(matched)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	out := make([]entity.Post, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, *r.loadLocked(p))
	}
	return out, total, nil
}

func (r *fakePostRepo) Update(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	ex.Title = p.Title
	ex.Slug = p.Slug
	ex.Content = p.Content
	ex.Tags = p.Tags
	ex.Published = p.Published
	ex.UpdatedAt = r.tick()
	p.UpdatedAt = ex.UpdatedAt
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	delete(r.likes, id)
	delete(r.comments, id)
	return nil
}

func (r *fakePostRepo) ToggleLike(_ context.Context, postID, userID string) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[postID]; !ok {
		return 0, false, repository.ErrNotFound
	}
	likes := r.likes[postID]
	for i, uid := range likes {
		if uid == userID {
			r.likes[postID] = append(likes[:i:i], likes[i+1:]...)
			return len(r.likes[postID]), false, nil
		}
	}
	r.likes[postID] = append(likes, userID)
	return len(r.likes[postID]), true, nil
}

func (r *fakePostRepo) AddComment(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[c.PostID]; !ok {
		return repository.ErrNotFound
	}
	r.seq++
	c.ID = fmt.Sprintf("c%06d", r.seq)
	c.CreatedAt = r.tick()
	c.UpdatedAt = c.CreatedAt
	r.comments[c.PostID] = append(r.comments[c.PostID], *c)
	return nil
}

func (r *fakePostRepo) GetComment(_ context.Context, postID, commentID string) (*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comments[postID] {
		if c.ID == commentID {
			cp := c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePostRepo) DeleteComment(_ context.Context, postID, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.comments[postID]
	for i, c := range list {
		if c.ID == commentID {
			r.comments[postID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePostRepo) ListComments(_ context.Context, postID string) ([]entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Comment{}, r.comments[postID]...), nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

var _ repository.PostRepository = (*fakePostRepo)(nil)
