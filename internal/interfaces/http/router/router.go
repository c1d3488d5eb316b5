package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that attach their routes to a
// router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under a versioned API prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// Option configures the router
type Option func(*Router)

// WithAPIVersion overrides the default API version prefix
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a router over the given engine
func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds registrars to be mounted on Setup
func (r *Router) Register(registrars ...RouteRegistrar) {
	r.registrars = append(r.registrars, registrars...)
}

// Setup mounts all registered routes under /api/{version}
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup is a named route group for one resource
type DomainGroup struct {
	group *gin.RouterGroup
}

// NewDomainGroup creates a route group named after the resource
func NewDomainGroup(rg *gin.RouterGroup, name string) *DomainGroup {
	return &DomainGroup{group: rg.Group("/" + name)}
}

// Group creates a nested group
func (g *DomainGroup) Group(path string) *DomainGroup {
	return &DomainGroup{group: g.group.Group(path)}
}

// GET registers a GET route
func (g *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) {
	g.group.GET(path, handlers...)
}

// POST registers a POST route
func (g *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) {
	g.group.POST(path, handlers...)
}

// PUT registers a PUT route
func (g *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) {
	g.group.PUT(path, handlers...)
}

// PATCH registers a PATCH route
func (g *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) {
	g.group.PATCH(path, handlers...)
}

// DELETE registers a DELETE route
func (g *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) {
	g.group.DELETE(path, handlers...)
}
