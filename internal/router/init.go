package router

import (
	"github.com/ajisatria/go-blog-api/internal/application"
	"github.com/ajisatria/go-blog-api/internal/container"
	"github.com/ajisatria/go-blog-api/internal/infrastructure/postgres"
	handlers "github.com/ajisatria/go-blog-api/internal/interface/http"
	"github.com/ajisatria/go-blog-api/internal/router/modules"
)

// InitModules builds services from the container singletons and registers
// every feature module with the router registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := postgres.NewUserRepository(pool)
	posts := postgres.NewPostRepository(pool)

	authSvc := application.NewAuthService(users, container.GetJWT(), logger, cfg.BcryptCost)
	postSvc := application.NewPostService(posts, logger, container.GetES(), cfg.ESPostsIndex)

	authHandler := handlers.NewAuthHandler(authSvc, logger)
	postHandler := handlers.NewPostHandler(postSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, authSvc))
	r.Add(modules.NewPostModule(postHandler, authSvc))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(authSvc))
	}
}
