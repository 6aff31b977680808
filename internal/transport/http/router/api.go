package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"lottery-forum/internal/core/server"
	mdw "lottery-forum/internal/transport/http/middleware"
)

// Deps is what both engines are built from.
type Deps struct {
	Log         *zap.Logger
	Sessions    mdw.Sessions
	Metrics     *mdw.HTTPMetrics
	Gatherer    prometheus.Gatherer // served on the admin engine's /metrics
	Modules     *Registry
	CORSOrigins []string
}

func (d Deps) common(engine string) []gin.HandlerFunc {
	hs := []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1 << 20),
		mdw.Timeout(10 * time.Second),
	}
	if d.Metrics != nil {
		hs = append(hs, d.Metrics.Handler(engine))
	}
	return append(hs, mdw.AccessLog(d.Log))
}

// NewAPIEngine serves the board under /api/v1. A bearer token is optional;
// endpoints decide for themselves what an anonymous caller may do.
func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, server.Options{Name: "api", CORS: true, AllowOrigins: d.CORSOrigins})
	r.Use(mdw.RateLimitPerIP(20, 40, 10*time.Minute))
	r.Use(d.common("api")...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")
	api.Use(d.Sessions.Middleware(false))
	d.Modules.MountAPI(api)
	return r
}
