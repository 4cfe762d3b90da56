package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/warbler/warbler/internal/api"
	"github.com/warbler/warbler/internal/core/ports"
	"github.com/warbler/warbler/internal/core/service"
	"github.com/warbler/warbler/internal/infrastructure/config"
	"github.com/warbler/warbler/internal/infrastructure/crypto"
	"github.com/warbler/warbler/internal/infrastructure/db/gormdb"
	"github.com/warbler/warbler/internal/infrastructure/db/mongo"
	"github.com/warbler/warbler/internal/infrastructure/db/redis"
	"github.com/warbler/warbler/internal/infrastructure/http/handlers"
	"github.com/warbler/warbler/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "warbler"})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "warbler",
	})

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	readiness := map[string]handlers.Pinger{"database": store}

	var denylist ports.TokenDenylist
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()
		denylist = redis.NewDenylist(rdb)
		readiness["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	} else {
		log.Warn().Msg("REDIS_ADDR not set, logout will not revoke tokens")
	}

	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)
	e := api.NewRouter(api.Deps{
		Auth:      service.NewAuthService(store, hasher, denylist, cfg.JWTSecret, cfg.TokenTTL, log),
		Users:     service.NewUserService(store, hasher, log),
		Messages:  service.NewMessageService(store, log),
		Denylist:  denylist,
		JWTSecret: cfg.JWTSecret,
		Readiness: readiness,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}

// openStore picks the persistence backend from DATABASE_URL.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.Store, func(context.Context) error, error) {
	if strings.HasPrefix(cfg.DatabaseURL, "mongodb://") || strings.HasPrefix(cfg.DatabaseURL, "mongodb+srv://") {
		store, disconnect, err := mongo.Open(ctx, mongo.Config{URI: cfg.DatabaseURL, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("backend", "mongodb").Msg("store ready")
		return store, disconnect, nil
	}

	db, err := gormdb.Open(ctx, gormdb.Config{URL: cfg.DatabaseURL}, log)
	if err != nil {
		return nil, nil, err
	}
	if err := gormdb.Migrate(ctx, db); err != nil {
		_ = gormdb.Close(db)
		return nil, nil, err
	}
	log.Info().Str("backend", string(gormdb.DialectOf(cfg.DatabaseURL))).Msg("store ready")
	return gormdb.NewStore(db), func(context.Context) error { return gormdb.Close(db) }, nil
}
