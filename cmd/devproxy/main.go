package main

import (
	"context"
	"os/signal"
	"syscall"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/joho/godotenv"

	"interiorai/internal/http/handlers"
	"interiorai/internal/http/httpapi"
	"interiorai/internal/imagegen"
	"interiorai/internal/infra"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogFile)

	// The proxy always answers from the canned generator; an HTTP generator
	// here would only forward to another proxy.
	gen := imagegen.NewCannedClient(imagegen.CannedOptions{Latency: cfg.CannedLatency})
	app := handlers.NewApp(gen, logger, cfg.ProxyMaxUpload)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := httpapi.Options{
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.ProxyRateLimit,
	}
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, rate limiting per process")
		} else {
			defer rdb.Close()
			opts.SharedLimiter = redis_rate.NewLimiter(rdb)
		}
	}

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, opts))

	logger.Info().Str("addr", server.Addr()).Dur("latency", cfg.CannedLatency).Msg("dev proxy listening")
	if err := server.Run(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
