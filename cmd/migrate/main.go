// Command migrate applies or rolls back the embedded schema migrations.
//
//	migrate up        apply all pending migrations
//	migrate down [n]  roll back n migrations (default 1)
//	migrate version   print the current version
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/logger"
)

func main() {
	_ = godotenv.Load()
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up|down [n]|version")
		os.Exit(2)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database open failed")
	}
	m, err := database.NewMigrator(db)
	if err != nil {
		log.WithError(err).Fatal("migrator init failed")
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil || steps < 1 {
				log.Fatalf("invalid step count %q", os.Args[2])
			}
		}
		err = m.Steps(-steps)
	case "version":
		v, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return
		}
		if verr != nil {
			log.WithError(verr).Fatal("read version failed")
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return
	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.WithError(err).Fatal("migration failed")
	}
	v, _, _ := m.Version()
	log.WithField("version", v).Info("migrations done")
}
