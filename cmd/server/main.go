package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/config"
	"github.com/Skotchmaster/bookly/internal/db"
	"github.com/Skotchmaster/bookly/internal/es"
	"github.com/Skotchmaster/bookly/internal/handlers"
	"github.com/Skotchmaster/bookly/internal/logging"
	authmw "github.com/Skotchmaster/bookly/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/bookly/internal/middleware/logging"
	"github.com/Skotchmaster/bookly/internal/mykafka"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/service/search"
	"github.com/Skotchmaster/bookly/internal/tokens"
	"github.com/Skotchmaster/bookly/internal/transport"
	httpserver "github.com/Skotchmaster/bookly/internal/transport/http"
)

func main() {
	cfg := config.Load()
	l := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	if err := cfg.RequireServer(); err != nil {
		l.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	ctx := logging.IntoContext(context.Background(), l)

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		l.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	rdb, err := blocklist.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		l.Error("redis_connect_failed", "error", err)
		os.Exit(1)
	}
	bl := blocklist.New(rdb, cfg.AccessTokenExpiry)

	prod := mykafka.NewEmailProducer(cfg.KafkaBrokers, cfg.EmailTopic)

	r := repo.New(gdb)
	codec := tokens.NewCodec(cfg.JWTSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)

	books := &service.BookService{Repo: r}
	tags := &service.TagService{Repo: r}
	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, cfg, l)
		if err != nil {
			l.Warn("search_index_disabled", "error", err)
		} else {
			ix := &search.Index{ES: client, Name: cfg.ESIndex}
			books.Index = ix
			tags.Index = ix
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = transport.NewValidator()
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(l))

	deps := httpserver.Deps{
		DB:        gdb,
		Blocklist: bl,
		Guard:     authmw.NewGuard(codec, bl, r),
		AuthHandler: &handlers.AuthHandler{Svc: &service.AuthService{
			Repo:         r,
			Codec:        codec,
			Blocklist:    bl,
			Mailer:       prod,
			VerifyTokens: tokens.NewURLSafe(cfg.URLTokenSecret, tokens.PurposeEmailVerification, cfg.VerifyTokenExpiry),
			ResetTokens:  tokens.NewURLSafe(cfg.URLTokenSecret, tokens.PurposePasswordReset, cfg.ResetTokenExpiry),
			Domain:       cfg.Domain,
			AppName:      cfg.ServiceName,
		}},
		BookHandler:   &handlers.BookHandler{Svc: books},
		ReviewHandler: &handlers.ReviewHandler{Svc: &service.ReviewService{Repo: r}},
		TagHandler:    &handlers.TagHandler{Svc: tags},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		l.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		l.Warn("force_exit")
		os.Exit(1)
	}()

	l.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server_shutdown_error", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			l.Error("db_close_error", "error", err)
		}
	}
	if err := rdb.Close(); err != nil {
		l.Error("redis_close_error", "error", err)
	}
	if err := prod.Close(); err != nil {
		l.Error("kafka_close_error", "error", err)
	}

	l.Info("shutdown_complete")
}
