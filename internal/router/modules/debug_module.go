package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/ajisatria/go-blog-api/internal/application"
	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	"github.com/ajisatria/go-blog-api/internal/interface/middleware"
)

// DebugModule exposes expvar counters to admins when enabled in config.
type DebugModule struct {
	Auth *application.AuthService
}

func NewDebugModule(auth *application.AuthService) *DebugModule {
	return &DebugModule{Auth: auth}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/debug")
	grp.Use(middleware.Auth(m.Auth), middleware.RequireRole(entity.RoleAdmin))
	grp.GET("/vars", gin.WrapH(expvar.Handler()))
}
