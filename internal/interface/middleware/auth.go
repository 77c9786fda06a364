package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ajisatria/go-blog-api/internal/application"
	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	"github.com/ajisatria/go-blog-api/pkg/response"
)

// Context keys set by the access guard.
const (
	CtxUserKey   = "currentUser"
	CtxUserIDKey = "userID"
)

// Auth extracts the bearer token from the Authorization header, resolves it
// to a user and attaches the identity to the request context.
func Auth(svc *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := ""
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, "no token provided", nil)
			return
		}
		u, err := svc.ResolveToken(c.Request.Context(), token)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// CurrentUser returns the identity attached by Auth, if any.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}

// RequireRole gates a route on an allow-list of roles. Missing identity is
// 401; a known identity outside the list is 403.
func RequireRole(allowed ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		for _, role := range allowed {
			if u.Role == role {
				c.Next()
				return
			}
		}
		response.AbortFail(c, http.StatusForbidden, "forbidden", nil)
	}
}
