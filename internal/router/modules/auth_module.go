package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajisatria/go-blog-api/internal/application"
	"github.com/ajisatria/go-blog-api/internal/container"
	handlers "github.com/ajisatria/go-blog-api/internal/interface/http"
	"github.com/ajisatria/go-blog-api/internal/interface/middleware"
)

// AuthModule wires registration, login and the current-user route.
// Public: POST /api/auth/register, POST /api/auth/login
// Protected: GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Svc     *application.AuthService
}

func NewAuthModule(h *handlers.AuthHandler, svc *application.AuthService) *AuthModule {
	return &AuthModule{Handler: h, Svc: svc}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Svc))
	{
		auth.GET("/auth/me", m.Handler.Me)
	}
}
