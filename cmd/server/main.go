package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Skufu/riskcalc/internal/config"
	"github.com/Skufu/riskcalc/internal/dosing"
	"github.com/Skufu/riskcalc/internal/logging"
	"github.com/Skufu/riskcalc/internal/router"
	"github.com/Skufu/riskcalc/internal/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.UsesPostgres() {
		pool, err = connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()
	}

	store, closeStore, err := openStore(ctx, cfg, pool)
	if err != nil {
		log.Fatal("workspace store", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer closeStore()

	ws := workspace.New(store, log.Named("workspace"))
	if err := ws.Load(ctx); err != nil {
		// Start empty; the next save overwrites whatever could not be read.
		log.Error("workspace load failed", zap.Error(err))
	}

	table, err := loadDosingTable(cfg.DosingTable)
	if err != nil {
		log.Fatal("dosing table", zap.Error(err))
	}

	staticRoot := cfg.StaticRoot
	if staticRoot == "" {
		staticRoot = detectStaticRoot()
	}

	opts := router.Options{
		Log:        log,
		Workspace:  ws,
		Dosing:     table,
		StaticRoot: staticRoot,
	}
	if pool != nil {
		opts.DB = pool
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	log.Info("server listening", zap.String("port", cfg.Port), zap.String("store", cfg.Store))
	waitForShutdown(server, log)
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

// openStore builds the configured workspace store. The returned func releases
// whatever connection the store owns.
func openStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (workspace.Store, func(), error) {
	noop := func() {}
	switch cfg.Store {
	case config.StoreMemory:
		return workspace.NewMemoryStore(), noop, nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return workspace.NewRedisStore(client, cfg.RedisKey), func() { _ = client.Close() }, nil
	case config.StorePostgres:
		if pool == nil {
			return nil, noop, errors.New("postgres store needs a database pool")
		}
		s := workspace.NewPostgresStore(pool, "default")
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	default:
		return workspace.NewFileStore(cfg.StorePath), noop, nil
	}
}

func loadDosingTable(path string) (*dosing.Table, error) {
	if path == "" {
		return dosing.DefaultTable()
	}
	return dosing.LoadTable(path)
}

func waitForShutdown(server *http.Server, log *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func detectStaticRoot() string {
	startDir, err := os.Getwd()
	if err != nil {
		return "."
	}

	candidates := []string{
		startDir,
		filepath.Join(startDir, "web"),
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}

	for _, dir := range candidates {
		if fileExists(filepath.Join(dir, "index.html")) {
			return dir
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
