package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/cleriovision/musicdb/src/features/config"
	"github.com/cleriovision/musicdb/src/features/hosting"
	"github.com/cleriovision/musicdb/src/features/importing"
	"github.com/cleriovision/musicdb/src/features/jobs"
	"github.com/cleriovision/musicdb/src/features/library"
	"github.com/cleriovision/musicdb/src/features/logging"
	"github.com/cleriovision/musicdb/src/features/metrics"
	"github.com/cleriovision/musicdb/src/features/reports"
	"github.com/cleriovision/musicdb/src/features/scanning"
	"github.com/cleriovision/musicdb/src/infra/artwork"
	"github.com/cleriovision/musicdb/src/infra/database"
	"github.com/cleriovision/musicdb/src/infra/tag"
	"github.com/cleriovision/musicdb/src/infra/watcher"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Create the database catalog
	catalog, err := database.NewSqliteCatalog(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to create catalog: %v", err)
	}
	defer catalog.Close()

	libraryService := library.NewService(catalog, cfgManager)
	reportsService := reports.NewService(catalog)

	// Create the job service
	jobService := jobs.NewService(&cfgManager.Get().Jobs)

	// Create the importing service
	tagReader := tag.NewTagReader()
	scanService := scanning.NewService(tagReader, cfgManager)
	artworkService := artwork.NewService(cfgManager)
	importingService := importing.NewService(catalog, scanService, artworkService, cfgManager, jobService)

	directoryImportTask := importing.NewDirectoryImportTask(importingService)
	jobService.RegisterHandler("directory_import", jobs.NewBaseTaskHandler(directoryImportTask))

	// Wire the file system watcher
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventChan := make(chan importing.FileEvent, 16)
	fsWatcher, err := watcher.NewWatcher(eventChan,
		cfgManager.Get().Import.Extensions,
		time.Duration(cfgManager.Get().Import.WatchDebounceMs)*time.Millisecond)
	if err != nil {
		slog.Error("Failed to create library watcher", "error", err)
	} else {
		importingService.SetWatcher(fsWatcher)
		go importingService.HandleFileEvents(ctx, eventChan)

		if cfgManager.Get().Import.AutoStartWatcher {
			if err := importingService.StartWatcher(ctx); err != nil {
				slog.Error("Failed to start library watcher", "error", err)
			}
		}
	}

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		var err error
		telegramBot, err = hosting.NewTelegramBot(cfgManager, libraryService, jobService, importingService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	registry := metrics.NewRegistry(catalog)
	server := hosting.NewServer(cfgManager, importingService, libraryService, reportsService, jobService, registry)
	go func() {
		slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)
		if err := server.Start(); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	importingService.StopWatcher()

	// Shutdown the Telegram bot
	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	// Shutdown the server
	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
