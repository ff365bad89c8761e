package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oriongle/portal-server/internal/api"
	"github.com/oriongle/portal-server/internal/auth"
	"github.com/oriongle/portal-server/internal/config"
	"github.com/oriongle/portal-server/internal/directory"
	"github.com/oriongle/portal-server/internal/mail"
	"github.com/oriongle/portal-server/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; deployed environments inject variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	secret := auth.ResolveSecret(cfg.JWTSecret, cfg.AdminPassword, cfg.ClientPassword)
	if err := auth.CheckSecretStrength(secret, cfg.IsDevelopment(), logger); err != nil {
		return err
	}

	var kv store.Store
	if cfg.StoreURL != "" {
		if err := store.ValidateURL(cfg.StoreURL, cfg.IsDevelopment()); err != nil {
			return err
		}
		dialCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		kv, err = store.Open(dialCtx, cfg.StoreURL, cfg.StoreToken)
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			if closer, ok := kv.(io.Closer); ok {
				_ = closer.Close()
			}
		}()
	} else {
		logger.Warn("no store URL configured; user directory and files are disabled")
	}
	dir := directory.New(kv)

	var mailer mail.Sender
	if resend := mail.NewResend(cfg.ResendAPIKey); resend != nil {
		mailer = resend
	} else {
		logger.Warn("no resend API key configured; outbound mail is disabled")
	}

	limiter := auth.NewRateLimiter()
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiter.Cleanup(time.Hour)
		}
	}()

	server := api.NewServer(cfg, secret, auth.NewCodec(), dir, mailer, limiter, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("portal server listening", "addr", httpServer.Addr, "development", cfg.IsDevelopment())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
