// Package main applies or reverts the embedded database migrations.
//
// Usage:
//
//	migrate up
//	migrate down [steps]
//	migrate version
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"supplyspend/internal/infrastructure/storage/postgres"
	"supplyspend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{Level: "info"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		if err := postgres.RunMigrations(dsn); err != nil {
			log.Fatalw("migrate up failed", "error", err)
		}
		log.Info("migrations applied")

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil {
				log.Fatalw("invalid step count", "value", os.Args[2])
			}
		}
		if err := postgres.RollbackMigrations(dsn, steps); err != nil {
			log.Fatalw("migrate down failed", "error", err)
		}
		log.Infow("migrations reverted", "steps", steps)

	case "version":
		v, dirty, err := postgres.MigrationVersion(dsn)
		if err != nil {
			log.Fatalw("read version failed", "error", err)
		}
		log.Infow("schema version", "version", v, "dirty", dirty)

	default:
		log.Fatalw("unknown command", "command", cmd, "usage", "migrate up|down [steps]|version")
	}
}
