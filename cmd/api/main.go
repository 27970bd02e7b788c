package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aescore/internal/auth"
	"aescore/internal/config"
	"aescore/internal/httpserver"
	"aescore/internal/logger"
	"aescore/internal/services/cipherops"
	"aescore/internal/store"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

func run(cfg config.Config, lg *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return err
	}
	st := store.New(db)
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	if err := seed(ctx, st, cfg, lg); err != nil {
		return err
	}

	router := httpserver.NewRouter(httpserver.Deps{
		Store:           st,
		Issuer:          auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn),
		Cipher:          cipherops.New(nil),
		Log:             lg,
		MaxPayloadBytes: cfg.MaxPayloadBytes,
	})
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		lg.Infow("listening", "port", cfg.HTTPPort)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	lg.Infow("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func seed(ctx context.Context, st *store.Store, cfg config.Config, lg *zap.SugaredLogger) error {
	if err := st.SeedRoles(ctx); err != nil {
		return err
	}
	if cfg.AdminPassword == "" {
		lg.Warnw("ADMIN_PASSWORD is empty, skipping default admin", "email", cfg.AdminEmail)
		return nil
	}
	created, err := st.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		lg.Infow("seeded default admin", "email", cfg.AdminEmail)
	}
	return nil
}
