package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"algolens/internal/application"
	appanalysis "algolens/internal/application/analysis"
	appblogs "algolens/internal/application/blogs"
	"algolens/internal/config"
	"algolens/internal/domain/identity"
	openaicli "algolens/internal/infra/ai/openai"
	mysqlp "algolens/internal/infra/db/mysql"
	postgresp "algolens/internal/infra/db/postgres"
	"algolens/internal/infra/httpserver"
	minioStore "algolens/internal/infra/storage"
	"algolens/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// connect record store
	var db *sql.DB

	analysisSvc := &appanalysis.Service{
		Clock: application.SystemClock{},
		Log:   logger,
	}
	blogSvc := &appblogs.Service{
		Clock: application.SystemClock{},
		Log:   logger,
	}

	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatal("postgres connect error", zap.Error(err))
		}
		analysisSvc.Repo = postgresp.NewAnalysisRepository(db)
		blogSvc.Repo = postgresp.NewBlogRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Fatal("mysql connect error", zap.Error(err))
		}
		analysisSvc.Repo = mysqlp.NewAnalysisRepository(db)
		blogSvc.Repo = mysqlp.NewBlogRepository(db)
	}
	defer db.Close()

	// model client
	analysisSvc.Model = openaicli.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	// optional raw-response archive
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		analysisSvc.Archive = store
	}

	// api key table
	users := make(map[string]identity.User, len(cfg.Auth.Keys))
	for _, k := range cfg.Auth.Keys {
		role := identity.Role(k.Role)
		if role != identity.RoleAdmin {
			role = identity.RoleMember
		}
		users[k.Key] = identity.User{ID: k.UserID, Name: k.Name, Role: role}
	}

	health := middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	})

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.Authenticate(users))
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Mount("/", httpserver.NewRouter(analysisSvc, blogSvc, health))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
