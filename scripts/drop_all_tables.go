package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"linkhive/internal/config"
)

func main() {
	_ = godotenv.Load()

	// Same prefix resolution as the server, so the script always targets
	// the tables the server actually uses
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Bookmarks reference folders, so they go first
	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %sbookmarks CASCADE;
		DROP TABLE IF EXISTS %sfolders CASCADE;
	`, cfg.TablePrefix, cfg.TablePrefix)

	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", cfg.TablePrefix)
}
