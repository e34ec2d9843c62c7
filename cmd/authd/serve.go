package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/99minutos/auth-service/internal/api"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/core/service"
	redisdb "github.com/99minutos/auth-service/internal/infrastructure/db/redis"
	"github.com/99minutos/auth-service/internal/infrastructure/hasher"
	"github.com/99minutos/auth-service/internal/infrastructure/memory"
	"github.com/99minutos/auth-service/internal/pkg/config"
	"github.com/99minutos/auth-service/pkg/logger"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWith(cmd.Context(), envconfig.OsLookuper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "authd",
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, rdb, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	e := api.NewRouter(api.Deps{
		Auth:       svc,
		Log:        logger.Component("http"),
		Redis:      rdb,
		Registerer: prometheus.DefaultRegisterer,
	})

	addr := net.JoinHostPort("", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// buildService wires stores, hasher and throttle into the auth service. The
// returned client is non-nil only for the redis throttle backend.
func buildService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*service.AuthService, *redis.Client, error) {
	opts := []service.Option{service.WithAdminUsername(cfg.Auth.AdminUsername)}

	var rdb *redis.Client
	if cfg.ThrottleEnabled() {
		var throttle ports.LoginThrottle
		switch cfg.Throttle.Backend {
		case config.ThrottleRedis:
			client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
			if err != nil {
				return nil, nil, err
			}
			rdb = client
			throttle = redisdb.NewLoginThrottle(client, cfg.Throttle.MaxFailures, cfg.Throttle.Window)
		default:
			throttle = memory.NewLoginThrottle(cfg.Throttle.MaxFailures, cfg.Throttle.Window)
		}
		opts = append(opts, service.WithLoginThrottle(throttle))
		log.Info().
			Str("backend", cfg.Throttle.Backend).
			Int("max_failures", cfg.Throttle.MaxFailures).
			Dur("window", cfg.Throttle.Window).
			Msg("login throttle enabled")
	}

	h := hasher.NewBcryptHasher(cfg.Auth.BcryptCost)
	if h.Cost() != cfg.Auth.BcryptCost {
		log.Warn().Int("requested", cfg.Auth.BcryptCost).Int("cost", h.Cost()).Msg("bcrypt cost out of range, using default")
	}

	svc := service.NewAuthService(
		memory.NewCredentialStore(),
		memory.NewSessionStore(cfg.Auth.SessionTTL),
		h,
		logger.Component("auth"),
		opts...,
	)
	return svc, rdb, nil
}
