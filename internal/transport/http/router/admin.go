package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lottery-forum/internal/core/server"
	"lottery-forum/internal/domain"
	mdw "lottery-forum/internal/transport/http/middleware"
)

// NewAdminEngine serves the moderation panel under /admin/v1 (admin role
// only), plus unauthenticated /health and /metrics.
func NewAdminEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, server.Options{Name: "admin"})
	r.Use(mdw.RateLimit(200, 400))
	r.Use(d.common("admin")...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	g := d.Gatherer
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))

	admin := r.Group("/admin/v1")
	admin.Use(d.Sessions.Middleware(true), mdw.RequireRole(domain.RoleAdmin))
	d.Modules.MountAdmin(admin)
	return r
}
