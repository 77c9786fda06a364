package entity

import "time"

// Author is the denormalized public view of a post or comment author.
type Author struct {
	ID       string
	Username string
	Role     Role
}

// Comment is an owned sub-entity of Post, addressed by a stable id
// rather than by position. Its lifetime is bound to the parent post.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Author    *Author
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Post is the aggregate root for the content domain.
// LikedBy holds the ids of users who currently like the post; a user id
// appears at most once.
type Post struct {
	ID        string
	Title     string
	Slug      string
	Content   string
	AuthorID  string
	Author    *Author
	Tags      []string
	LikedBy   []string
	LikeCount int
	Comments  []Comment
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
