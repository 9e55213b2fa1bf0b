package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voterroll/internal/config"
	"voterroll/internal/handler"
	"voterroll/internal/ingest"
	"voterroll/internal/metrics"
	"voterroll/internal/repository/sqlite"
	"voterroll/internal/service"
	"voterroll/internal/watcher"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	csvPath := flag.String("csv", "", "Roll CSV file to load and reload")
	load := flag.Bool("load", false, "Load the roll CSV on start")
	watch := flag.Bool("watch", false, "Reload the roll CSV when it changes")
	pageSize := flag.Int("page-size", 0, "Voters per list page")
	initConfig := flag.Bool("init-config", false, "Write a default config file and exit")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if *initConfig {
		path := config.DefaultConfigPath()
		if err := config.DefaultConfig().Save(path); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		log.Printf("Wrote default config to %s", path)
		return
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Server.Addr = *addr
		case "db":
			cfg.Database.Path = *dbPath
		case "csv":
			cfg.Ingest.CSVPath = *csvPath
		case "load":
			cfg.Ingest.LoadOnStart = *load
		case "watch":
			cfg.Ingest.Watch = *watch
		case "page-size":
			cfg.UI.PageSize = *pageSize
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	log.Println("Starting voter roll server...")
	if path != "" {
		log.Printf("Config loaded: %s", path)
	}
	log.Println(cfg.Summary())

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if count, err := repo.Count(ctx); err != nil {
		log.Printf("Failed to count voters: %v", err)
	} else {
		metrics.VotersLoaded.Set(float64(count))
		if last, err := repo.LastImport(ctx); err == nil && !last.IsZero() {
			log.Printf("Roll has %d voters, last imported %s", count, last.Format(time.RFC3339))
		}
	}

	// Initialize event bus
	eventBus := service.NewEventBus()
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go service.LogEvents(eventChan)

	// Initialize services
	voterSvc := service.NewVoterService(repo, eventBus)
	voterSvc.SetIngestOptions(ingest.Options{SkipHeader: cfg.SkipHeader()})

	if cfg.Ingest.LoadOnStart {
		if _, err := voterSvc.Reload(ctx, cfg.Ingest.CSVPath); err != nil {
			log.Printf("Warning: Failed to load roll on start: %v", err)
		}
	}

	// Reload the roll whenever the file settles after a change
	if cfg.Ingest.Watch {
		w := watcher.New(cfg.Ingest.CSVPath, func(ctx context.Context, path string) error {
			_, err := voterSvc.Reload(ctx, path)
			if errors.Is(err, service.ErrReloadInProgress) {
				return watcher.ErrBusy
			}
			return err
		}).WithDebounce(cfg.Ingest.Debounce.Duration())
		go func() {
			if err := w.Watch(ctx); err != nil && err != context.Canceled {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
	}

	// Initialize HTTP handlers
	voterHandler, err := handler.NewVoterHandler(voterSvc, handler.Options{
		PageSize: cfg.UI.PageSize,
		Years:    cfg.YearRange().Years(),
		CSVPath:  cfg.Ingest.CSVPath,
	})
	if err != nil {
		log.Fatalf("Failed to create handler: %v", err)
	}

	// Setup routes
	mux := http.NewServeMux()
	voterHandler.Register(mux)
	mux.Handle("GET /metrics", metrics.Handler())

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop the watcher
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// loadConfig reads an explicit config file, or searches the standard
// locations when path is empty
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		return config.Load()
	}
	cfg, path, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
