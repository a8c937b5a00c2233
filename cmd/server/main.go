package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/config"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/db"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/events"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/httpserver"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/logging"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/middleware/csrf"
	loggingmw "github.com/SaiChaitanya436/Restauarant-Management-Application/internal/middleware/logging"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/repo"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/search"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/service"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers)

	gormRepo := &repo.GormRepo{DB: database}

	catalogSvc := &service.CatalogService{Repo: gormRepo, Events: publisher}
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Printf("elasticsearch disabled: %v", err)
		} else {
			catalogSvc.Search = &search.MenuIndex{ES: esClient, Index: cfg.ESIndex}
		}
	}

	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Events:        publisher,
	}
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpserver.NewRequestValidator()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(logger),
		middleware.Secure(),
		csrf.Middleware(csrf.Config{
			Secure:       cfg.CookieSecure,
			SkipPrefixes: []string{"/health"},
		}),
	)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, SecureCookie: cfg.CookieSecure},
		MenuHandler:    &httpserver.MenuHTTP{Svc: catalogSvc},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: gormRepo, Events: publisher}},
		OrderHandler:   &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: gormRepo, Events: publisher}},
		JWTSecret:      cfg.JWTAccessSecret,
		Refresher:      authSvc,
		SecureCookie:   cfg.CookieSecure,
		AuthRatePerSec: cfg.LoginRatePerSec,
		Ready:          pinger(database),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		log.Println("force exit")
		os.Exit(1)
	}()

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := db.Close(database); err != nil {
		log.Printf("db close error: %v", err)
	}

	if err := publisher.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}

func pinger(database *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := database.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
