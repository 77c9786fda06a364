package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ajisatria/go-blog-api/internal/application"
	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	"github.com/ajisatria/go-blog-api/pkg/response"
)

// fail maps a service failure onto a status code and error body. The
// services return typed errors; this is the only place that mapping lives.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	if ve, ok := application.AsValidation(err); ok {
		response.Fail(c, http.StatusBadRequest, "validation error", ve.Details)
		return
	}
	switch err {
	case application.ErrUserExists:
		response.Fail(c, http.StatusConflict, "user already exists", nil)
	case application.ErrInvalidCredentials:
		response.Fail(c, http.StatusBadRequest, "invalid credentials", nil)
	case application.ErrUnauthorized:
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
	case application.ErrForbidden:
		response.Fail(c, http.StatusForbidden, "forbidden", nil)
	case application.ErrPostNotFound:
		response.Fail(c, http.StatusNotFound, "post not found", nil)
	case application.ErrCommentNotFound:
		response.Fail(c, http.StatusNotFound, "comment not found", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.Fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func authorJSON(a *entity.Author) gin.H {
	if a == nil {
		return nil
	}
	return gin.H{"id": a.ID, "username": a.Username, "role": a.Role}
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func commentJSON(cm *entity.Comment) gin.H {
	out := gin.H{
		"id":         cm.ID,
		"content":    cm.Content,
		"created_at": cm.CreatedAt,
		"updated_at": cm.UpdatedAt,
	}
	if cm.Author != nil {
		out["author"] = authorJSON(cm.Author)
	} else {
		out["author"] = cm.AuthorID
	}
	return out
}

func commentsJSON(cms []entity.Comment) []gin.H {
	out := make([]gin.H, 0, len(cms))
	for i := range cms {
		out = append(out, commentJSON(&cms[i]))
	}
	return out
}

// postJSON renders a post. Detailed rendering (single-post get) includes the
// liker ids and embedded comments; listings carry counts only.
func postJSON(p *entity.Post, detailed bool) gin.H {
	out := gin.H{
		"id":         p.ID,
		"title":      p.Title,
		"slug":       p.Slug,
		"content":    p.Content,
		"author":     authorJSON(p.Author),
		"tags":       p.Tags,
		"likes":      p.LikeCount,
		"published":  p.Published,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
	if detailed {
		out["liked_by"] = p.LikedBy
		out["comments"] = commentsJSON(p.Comments)
	}
	return out
}
