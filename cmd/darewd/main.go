package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"darew.com/internal/auth"
	"darew.com/internal/config"
	"darew.com/internal/content"
	"darew.com/internal/httpapi"
	"darew.com/internal/kv"
	"darew.com/internal/obs"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		obs.Logger().Fatal("load config", zap.Error(err))
	}
	logger, err := obs.NewLogger(cfg.Log.Level)
	if err != nil {
		obs.Logger().Fatal("build logger", zap.Error(err))
	}
	restore := obs.SetLogger(logger)
	defer restore()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("darewd stopped", zap.Error(err))
	}
	logger.Info("stopped")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	st, err := kv.Open(ctx, cfg.KV())
	if err != nil {
		return err
	}
	defer st.Close()

	identities, err := auth.New(ctx, st, auth.WithHashCost(cfg.Auth.HashCost), auth.WithLogger(logger))
	if err != nil {
		return err
	}
	catalog, err := content.New(ctx, st, content.WithLogger(logger))
	if err != nil {
		return err
	}
	if cfg.Auth.SessionSecret == "" {
		logger.Warn("session secret not configured; tokens will not survive a restart")
	}
	sessions, err := auth.NewSessions(cfg.Auth.SessionSecret, auth.WithSessionTTL(cfg.Auth.SessionTTL))
	if err != nil {
		return err
	}

	trusted, err := cfg.HTTP.TrustedPrefixes()
	if err != nil {
		return err
	}

	probe := httpapi.ReadyProbe{Storage: st}
	api, err := httpapi.New(probe, version, httpapi.Deps{
		Identities: identities,
		Content:    catalog,
		Sessions:   sessions,
	},
		httpapi.WithContactLimit(cfg.HTTP.ContactRate, cfg.HTTP.ContactBurst),
		httpapi.WithAllowedOrigins(cfg.HTTP.AllowedOrigins),
		httpapi.WithTrustedProxies(trusted),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	health := httpapi.NewGRPCHealth(probe)
	health.Refresh(ctx)
	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, health)

	logger.Info("starting darewd",
		zap.String("version", version),
		zap.String("http_addr", cfg.HTTP.Addr),
		zap.String("grpc_addr", cfg.GRPC.Addr),
		zap.String("storage", string(st.Driver())),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.GRPC.Addr != "" {
		g.Go(func() error {
			lis, err := net.Listen("tcp", cfg.GRPC.Addr)
			if err != nil {
				return err
			}
			return grpcSrv.Serve(lis)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		health.Shutdown()
		grpcSrv.GracefulStop()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
