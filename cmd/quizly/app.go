package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/quizly/quizly/internal/db"
	"github.com/quizly/quizly/internal/handlers"
	"github.com/quizly/quizly/internal/logger"
	"github.com/quizly/quizly/internal/repository/postgres"
	"github.com/quizly/quizly/internal/service/auth"
	"github.com/quizly/quizly/internal/service/auth/tokenmanager"
	"github.com/quizly/quizly/internal/service/gemini"
	"github.com/quizly/quizly/internal/service/media"
	"github.com/quizly/quizly/internal/service/quiz"
	"github.com/quizly/quizly/internal/service/quizgen"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Cookies without the Secure attribute are for local development only
	secureCookies := c.Environment != logger.EnvDevelopment

	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize auth services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, storage.Blacklist())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{SecureCookies: secureCookies}, tokenManager, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	// Initialize quiz generation pipeline
	downloader := media.NewDownloader(media.DownloaderConfig{}, logger)
	transcriber, err := media.NewTranscriber(media.TranscriberConfig{Model: c.WhisperModel}, logger)
	if err != nil {
		return nil, fmt.Errorf("error while creating transcriber. Err: %w", err)
	}
	generator, err := gemini.NewClient(gemini.Config{APIKey: c.GeminiAPIKey, Model: c.GeminiModel}, logger)
	if err != nil {
		return nil, fmt.Errorf("error while creating quiz generator. Err: %w", err)
	}
	builder := quizgen.NewBuilder(downloader, transcriber, generator, logger)
	quizService := quiz.NewService(storage, builder)

	mux := handlers.NewRouter(authService, quizService, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
