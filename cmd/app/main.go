package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist-api/internal/auth"
	"github.com/BuzzLyutic/tasklist-api/internal/config"
	"github.com/BuzzLyutic/tasklist-api/internal/handler"
	"github.com/BuzzLyutic/tasklist-api/internal/migrations"
	"github.com/BuzzLyutic/tasklist-api/internal/repo"
	"github.com/BuzzLyutic/tasklist-api/internal/service"
)

const usage = `usage:
  app [serve]
  app migrate <up|down|status|version>
  app createuser -username NAME -password PASSWORD`

func main() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load() // .env может отсутствовать
	}

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаем логгер
	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	command, args := "serve", os.Args[1:]
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		err = serve(cfg, logger)
	case "migrate":
		err = migrate(cfg, logger, args)
	case "createuser":
		err = createUser(cfg, logger, args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fail(logger, command, err, os.Exit)
	}
}

// fail logs err and flushes the logger before exiting, since exit skips
// deferred calls.
func fail(logger *zap.Logger, command string, err error, exit func(int)) {
	logger.Error("Command failed", zap.String("command", command), zap.Error(err))
	logger.Sync()
	exit(1)
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}

// openPool создает пул соединений и проверяет, что БД отвечает
func openPool(ctx context.Context, url string, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Successfully connected to the Database!")
	return pool, nil
}

func newAuthenticator(cfg *config.Config, denylist auth.Denylist, users repo.UserRepository, logger *zap.Logger) (*auth.Authenticator, error) {
	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return nil, err
	}
	return auth.NewAuthenticator(tokens, denylist, users, logger), nil
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Подключаем БД
	pool, err := openPool(ctx, cfg.Database.URL, logger)
	if err != nil {
		return err
	}
	defer pool.Close() // Запланированное закрытие соединения

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, pool, logger); err != nil {
			return err
		}
	}

	var denylist auth.Denylist
	if cfg.Redis.URL != "" {
		client, err := auth.OpenRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		denylist = auth.NewRedisDenylist(client)
		logger.Info("Revoked tokens are stored in redis")
	} else {
		denylist = auth.NewMemoryDenylist()
		logger.Warn("REDIS_URL is not set, revoked tokens are kept in memory")
	}

	authn, err := newAuthenticator(cfg, denylist, repo.NewUserRepo(pool), logger)
	if err != nil {
		return err
	}

	r := handler.NewRouter(handler.Deps{
		Tasks:  service.NewTaskService(repo.NewTaskRepo(pool)),
		Auth:   service.NewAuthService(authn),
		Authn:  authn,
		DB:     pool,
		Logger: logger,
	})

	srv := http.Server{ // Создаем сервер
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped successfully!")
	return nil
}

func migrate(cfg *config.Config, logger *zap.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("migrate expects one of %v", migrations.Commands)
	}

	ctx := context.Background()
	pool, err := openPool(ctx, cfg.Database.URL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	return migrations.Run(ctx, pool, logger, args[0])
}

func createUser(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("createuser", flag.ContinueOnError)
	username := fs.String("username", "", "login of the new user")
	password := fs.String("password", "", "password of the new user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("createuser requires -username and -password")
	}

	ctx := context.Background()
	pool, err := openPool(ctx, cfg.Database.URL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	authn, err := newAuthenticator(cfg, auth.NewMemoryDenylist(), repo.NewUserRepo(pool), logger)
	if err != nil {
		return err
	}

	u, err := authn.CreateUser(ctx, *username, *password)
	if errors.Is(err, repo.ErrorConflict) {
		return fmt.Errorf("user %q already exists", *username)
	}
	if err != nil {
		return err
	}
	logger.Info("User created", zap.Int64("id", u.ID), zap.String("username", u.Username))
	return nil
}
