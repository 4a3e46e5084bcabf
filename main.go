package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/cors"
	"gopkg.in/natefinch/lumberjack.v2"

	"reelview/api"
	"reelview/cache"
	"reelview/config"
	"reelview/handlers"
	"reelview/services/accounts"
	"reelview/services/catalog"
	"reelview/services/continuewatching"
	"reelview/services/favorites"
	"reelview/services/identity"
	"reelview/services/player"
	"reelview/services/progress"
	"reelview/utils"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("reelview starting...")

	configPath := os.Getenv("REELVIEW_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("data", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// File logging with rotation, mirrored to stdout
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	if token := os.Getenv("REELVIEW_CATALOG_TOKEN"); token != "" {
		settings.Catalog.AccessToken = token
	}

	storageDir := settings.Storage.Directory

	progressService, err := progress.NewService(storageDir)
	if err != nil {
		log.Fatalf("failed to init progress store: %v", err)
	}
	favoritesService, err := favorites.NewService(storageDir)
	if err != nil {
		log.Fatalf("failed to init favorites store: %v", err)
	}
	accountsService, err := accounts.NewService(storageDir)
	if err != nil {
		log.Fatalf("failed to init accounts store: %v", err)
	}

	responseCache := cache.NewMemory(time.Minute)
	defer responseCache.Close()

	catalogService := catalog.NewService(settings.Catalog, settings.Cache, responseCache, nil)
	if !catalogService.Configured() {
		log.Println("Warning: no catalog access token configured, browse endpoints will return 503")
	}

	identityService := identity.NewService(storageDir)
	playerService := player.NewService(progressService, settings.Streaming.EmbedBaseURL, 0)
	continueService := continuewatching.NewService(progressService, catalogService)

	router := utils.NewRouter()
	api.Register(router,
		handlers.NewProgressHandler(progressService),
		handlers.NewFavoritesHandler(favoritesService),
		handlers.NewAuthHandler(accountsService),
		handlers.NewCatalogHandler(catalogService),
		handlers.NewContinueWatchingHandler(continueService),
		handlers.NewStreamHandler(playerService),
		handlers.NewSessionHandler(identityService),
	)

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      corsWrapper.Handler(router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
