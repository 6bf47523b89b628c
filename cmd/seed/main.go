// Command seed copies the example users into the configured persistent
// store. Users whose email is already stored are left untouched.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"donation-tracker/internal/app"
	"donation-tracker/internal/config"
	"donation-tracker/internal/seed"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if cfg.Store.Driver == config.DriverMemory {
		logger.Fatal("memory driver has nothing to seed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, err := app.LoadSeed(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("load seed users: %v", err)
	}

	repo, closeRepo, err := app.OpenPrimary(ctx, cfg)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.Store.Driver, err)
	}
	defer closeRepo(context.Background())

	added, err := seed.Populate(ctx, repo, users, logger)
	if err != nil {
		logger.Errorf("seed users: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"added":   added,
		"skipped": len(users) - added,
	}).Info("seeding complete")
}
