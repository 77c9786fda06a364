package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajisatria/go-blog-api/internal/application"
	"github.com/ajisatria/go-blog-api/internal/container"
	handlers "github.com/ajisatria/go-blog-api/internal/interface/http"
	"github.com/ajisatria/go-blog-api/internal/interface/middleware"
)

// PostModule wires the post CRUD, like and comment routes.
// Public: GET /api/posts, GET /api/posts/search, GET /api/posts/:slug
// Protected: every mutation.
type PostModule struct {
	Handler *handlers.PostHandler
	Auth    *application.AuthService
}

func NewPostModule(h *handlers.PostHandler, auth *application.AuthService) *PostModule {
	return &PostModule{Handler: h, Auth: auth}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rg.GET("/posts", m.Handler.List)
	rg.GET("/posts/search", m.Handler.Search)
	rg.GET("/posts/:slug", m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Auth))
	// Softer per-user limiter across all authenticated writes
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.POST("/posts", m.Handler.Create)
		auth.PATCH("/posts/:slug", m.Handler.Update)
		auth.DELETE("/posts/:slug", m.Handler.Remove)
		auth.POST("/posts/:slug/like", m.Handler.ToggleLike)
		auth.POST("/posts/:slug/comments", m.Handler.AddComment)
		auth.DELETE("/posts/:slug/comments/:commentId", m.Handler.RemoveComment)
	}
}
