package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"donation-tracker/internal/app"
	"donation-tracker/internal/config"
	"donation-tracker/internal/events"
	apphttp "donation-tracker/internal/http"
	"donation-tracker/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("invalid log level %q, using info", cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seedUsers, err := app.LoadSeed(ctx, cfg, logger)
	if err != nil {
		logger.Warnf("load seed users: %v", err)
	}

	store := app.OpenStore(ctx, cfg, seedUsers, logger)

	var publisher events.Publisher = events.Nop{}
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL, logger)
		if err != nil {
			logger.Warnf("connect nats: %v", err)
		} else {
			natsPublisher := events.NewNATSPublisher(nc, cfg.NATS.Subject)
			defer natsPublisher.Close()
			publisher = natsPublisher
		}
	}

	userService := service.NewUserService(store.Users, publisher, logger)
	boardService := service.NewBoardService(store.Users)

	gin.SetMode(gin.ReleaseMode)
	handler := apphttp.NewHandler(userService, boardService, store.Connected, cfg.Server.FrontendURL, logger)
	router := apphttp.NewRouter(handler)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Warnf("close store: %v", err)
	}

	logger.Info("bye")
}
