package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/darass-team/darass-backend/internal/config"
	"github.com/darass-team/darass-backend/internal/handler"
	"github.com/darass-team/darass-backend/internal/oauth"
	"github.com/darass-team/darass-backend/internal/repository"
	"github.com/darass-team/darass-backend/internal/service"
	"github.com/darass-team/darass-backend/internal/storage"
	"github.com/darass-team/darass-backend/internal/token"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected")

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	bucket := storage.NewS3Bucket(s3.NewFromConfig(awsCfg), storage.Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		KeyPrefix: cfg.S3KeyPrefix,
	})

	userRepo := repository.NewUserRepository(db)

	codec := token.NewCodec(token.Config{
		AccessTokenSecret:    cfg.AccessTokenSecret,
		RefreshTokenSecret:   cfg.RefreshTokenSecret,
		AccessTokenLifetime:  cfg.AccessTokenLifetime,
		RefreshTokenLifetime: cfg.RefreshTokenLifetime,
	})

	providers := oauth.NewRegistry(
		oauth.NewKakao(cfg.KakaoClientID, cfg.KakaoClientSecret, cfg.OAuthRedirectURL),
		oauth.NewNaver(cfg.NaverClientID, cfg.NaverClientSecret, cfg.OAuthRedirectURL),
		oauth.NewGitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.OAuthRedirectURL),
	)

	authSvc := service.NewAuthService(userRepo, codec, providers)
	userSvc := service.NewUserService(userRepo, bucket)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Validator = handler.NewAppValidator()

	e.Use(echomiddleware.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	api.POST("/login/oauth", authHandler.Login)
	api.POST("/login/refresh", authHandler.Refresh)

	authed := api.Group("", handler.LoginRequired(authSvc))
	authed.DELETE("/log-out", authHandler.Logout)
	authed.GET("/users/me", userHandler.Me)
	authed.PATCH("/users", userHandler.UpdateProfile)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
