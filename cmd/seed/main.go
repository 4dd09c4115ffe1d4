package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"linkhive/internal/config"
	"linkhive/internal/repository/postgres"
	"linkhive/internal/seed"

	"github.com/joho/godotenv"
)

// Seeds sample folders and bookmarks for a user. Usage:
//
//	go run ./cmd/seed <user-id>
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("usage: seed <user-id>")
	}
	ownerID := os.Args[1]

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	seeder := seed.NewLinkSeeder(
		postgres.NewFolderRepository(repoConfig),
		postgres.NewBookmarkRepository(repoConfig),
		logger,
	)

	if err := seeder.Seed(ctx, ownerID); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
}
