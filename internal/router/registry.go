package router

import "github.com/gin-gonic/gin"

// Registry collects feature modules and mounts them under /api in
// registration order.
type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) RegisterAll() {
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
