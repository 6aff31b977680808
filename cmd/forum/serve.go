package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"lottery-forum/internal/core/auth"
	"lottery-forum/internal/core/clock"
	"lottery-forum/internal/core/config"
	"lottery-forum/internal/core/logger"
	"lottery-forum/internal/core/server"
	"lottery-forum/internal/feature/member"
	"lottery-forum/internal/forum"
	"lottery-forum/internal/notify"
	"lottery-forum/internal/repo"
	"lottery-forum/internal/session"
	"lottery-forum/internal/transport/http/handler"
	mdw "lottery-forum/internal/transport/http/middleware"
	"lottery-forum/internal/transport/http/router"
)

var errNoJWTSecret = errors.New("jwt.secret is empty; set it in the config or APP_JWT_SECRET")

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the member API and the admin panel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read(*cfgPath)
			if err != nil {
				return err
			}
			log, cleanup := logger.FromConfig(cfg.Log)
			defer cleanup()
			defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

			if cfg.App.Env == "prod" {
				gin.SetMode(gin.ReleaseMode)
			}
			gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := serve(ctx, cfg, log); err != nil {
				log.Error("serve", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.JWT.Secret == "" {
		return errNoJWTSecret
	}
	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	rc, err := openCache(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
	}

	jwtTTL := time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute
	slots, err := buildSlots(cfg.Session, rc, jwtTTL)
	if err != nil {
		return err
	}

	creds := session.NewCredentials(cfg.Auth.AdminUsername, cfg.Auth.AdminPasscodeHash)
	dir := member.NewDirectory(repo.NewMemberRepo(db), rc,
		time.Duration(cfg.Forum.DirectoryCacheSec)*time.Second, log.Named("members"))

	clk := clock.NewSystem()
	notes := notify.Log(log)
	opts := []forum.Option{
		forum.WithClock(clk),
		forum.WithNotifier(notes),
		forum.WithMetrics(forum.NewMetrics(prometheus.DefaultRegisterer)),
		forum.WithLogger(log.Named("forum")),
		forum.WithMaxViewBump(cfg.Forum.MaxViewBump),
	}
	if cfg.Forum.SeedDemo {
		if err := dir.SeedDefaults(ctx, creds.Admin()); err != nil {
			return err
		}
		opts = append(opts, forum.WithSnapshot(forum.Seed(clk.Now())))
	}
	m := forum.NewManager(opts...)
	refresher := forum.NewRefresher(m, time.Duration(cfg.Forum.ViewRefreshMs)*time.Millisecond)
	defer refresher.Stop()

	sess := mdw.Sessions{
		JWT:   &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: jwtTTL},
		Slots: slots,
		Creds: creds,
		Options: []session.Option{
			session.WithClock(clk),
			session.WithDirectory(dir),
			session.WithNotifier(notes),
			session.WithLogger(log.Named("session")),
		},
		Log: log.Named("session"),
	}
	deps := router.Deps{
		Log:      log,
		Sessions: sess,
		Metrics:  mdw.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Gatherer: prometheus.DefaultGatherer,
		Modules: router.NewRegistry(
			handler.NewAuth(sess),
			handler.NewForum(m, refresher, ctx),
			handler.NewAdmin(m, dir),
		),
	}

	h := cfg.App.HTTP
	apiSrv := server.BuildServer(server.Addr(h.Host, h.Port), router.NewAPIEngine(deps),
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
	a := cfg.App.Admin
	adminSrv := server.BuildServer(server.Addr(a.Host, a.Port), router.NewAdminEngine(deps),
		5*time.Second, 10*time.Second, 60*time.Second)

	apiURL, adminURL := humanURL(h.Host, h.Port), humanURL(a.Host, a.Port)
	log.Info("forum starting",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("api_v1", apiURL+"/api/v1"),
		zap.String("admin_v1", adminURL+"/admin/v1"),
		zap.String("metrics", adminURL+"/metrics"),
		zap.String("session_backend", cfg.Session.Backend),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx, apiSrv, "user api", log) })
	g.Go(func() error { return server.Run(gctx, adminSrv, "admin api", log) })
	return g.Wait()
}
