package router

import "github.com/gin-gonic/gin"

// Module is one feature area (auth, posts, debug) that mounts its own
// routes and per-route middleware on the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
