package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"linkhive/internal/appearance"
	"linkhive/internal/auth"
	"linkhive/internal/config"
	"linkhive/internal/handler"
	"linkhive/internal/middleware"
	"linkhive/internal/repository/postgres"
	authsvc "linkhive/internal/service/auth"
	"linkhive/internal/service/links"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOut := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier against the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	bookmarkRepo := postgres.NewBookmarkRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Appearance palette for folder colors and icons
	palette, err := appearance.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize appearance registry: %v", err)
	}

	// Services
	authorizer := authsvc.NewOwnerBasedAuthorizer(folderRepo, bookmarkRepo)
	folderService := links.NewFolderService(folderRepo, bookmarkRepo, txManager, palette, authorizer, logger)
	bookmarkService := links.NewBookmarkService(bookmarkRepo, authorizer, logger)
	bulkService := links.NewBulkService(bookmarkRepo, logger)
	importService := links.NewImportService(folderRepo, bookmarkRepo, logger)

	// Handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService, logger)
	bulkHandler := handler.NewBulkHandler(bulkService, logger)
	importHandler := handler.NewImportHandler(importService, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.Create)
	mux.HandleFunc("GET /api/folders/tree", folderHandler.GetTree) // Must come before {id} route
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.Get)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.Update)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.Delete)
	mux.HandleFunc("GET /api/folders/{id}/path", folderHandler.GetPath)
	mux.HandleFunc("GET /api/folders/{id}/descendants", folderHandler.GetDescendants)
	mux.HandleFunc("POST /api/folders/{id}/sync-count", folderHandler.SyncCount)

	// Bookmark routes
	mux.HandleFunc("GET /api/bookmarks", bookmarkHandler.List)
	mux.HandleFunc("POST /api/bookmarks", bookmarkHandler.Create)
	mux.HandleFunc("GET /api/bookmarks/{id}", bookmarkHandler.Get)
	mux.HandleFunc("PATCH /api/bookmarks/{id}", bookmarkHandler.Update)
	mux.HandleFunc("DELETE /api/bookmarks/{id}", bookmarkHandler.Delete)
	mux.HandleFunc("POST /api/bookmarks/{id}/share", bookmarkHandler.Share)

	// Bulk routes
	mux.HandleFunc("POST /api/bookmarks/bulk", bulkHandler.Apply)
	mux.HandleFunc("POST /api/bookmarks/bulk/snapshot", bulkHandler.Snapshot)
	mux.HandleFunc("POST /api/bookmarks/bulk/undo", bulkHandler.Undo)

	// Import route
	mux.HandleFunc("POST /api/import", importHandler.Import)

	// Build middleware chain, innermost first
	// Order: CORS → Recovery → Auth → Routes
	var chain http.Handler = mux
	chain = middleware.Auth(jwtVerifier, logger)(chain)
	chain = middleware.Recovery(logger)(chain)

	// CORS - must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	chain = corsHandler.Handler(chain)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
