package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"oddslens/src/cache"
	"oddslens/src/connectors"
	"oddslens/src/controller"
	"oddslens/src/database"
	"oddslens/src/handler"
	"oddslens/src/server"
	"oddslens/src/watcher"
)

var (
	APP_NAME = os.Getenv("APP_NAME")
)

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()
	defer handlePanic()

	// Audit-log persistence is optional; with ENABLE_DB off the
	// repositories degrade to no-ops.
	if database.GetConfig().EnableDB {
		if err := database.Init(); err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
	}

	// Same for the response cache: without Redis every lookup misses.
	store, err := cache.NewFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	hub := handler.NewHub()
	go hub.Run()

	// Poll the watched wallet and push snapshots to stream clients.
	watcherConfig := watcher.GetConfig()
	if watcherConfig.WatchWallet != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := watcher.StartLoop(ctx, connectors.NewMarketClientFromEnv(), hub, controller.LogNotifier{}); err != nil {
				logger.WithError(err).Error("portfolio watcher exited")
			}
		}()
	}

	server.StartServer(server.GetConfig().Port, store, hub)
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
