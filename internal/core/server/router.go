package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "lottery-forum/internal/transport/http/middleware"
)

type Options struct {
	Name string
	// CORS enables cross-origin access for the listed origins; "*" or an
	// empty list with CORS set allows any origin.
	CORS         bool
	AllowOrigins []string
}

// NewRouter returns a bare engine with panic recovery and optional CORS.
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	r := gin.New()
	r.Use(mdw.Recovery(l))
	if o.CORS {
		cfg := cors.DefaultConfig()
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", mdw.KeyRequestID)
		cfg.ExposeHeaders = []string{mdw.KeyRequestID}
		if len(o.AllowOrigins) == 0 || (len(o.AllowOrigins) == 1 && o.AllowOrigins[0] == "*") {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = o.AllowOrigins
		}
		r.Use(cors.New(cfg))
	}
	return r
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20,
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 10 * time.Second

// Run serves until ctx ends, then shuts srv down gracefully. A listener
// failure is returned; a clean shutdown returns nil.
func Run(ctx context.Context, srv *http.Server, name string, l *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		l.Info(name+" starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("%s: %w", name, err)
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", name, err)
	}
	l.Info(name+" stopped gracefully")
	return <-errc
}
