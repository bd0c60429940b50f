package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calvinwijaya/eight-of-clubs/internal/api"
	"github.com/calvinwijaya/eight-of-clubs/internal/config"
	"github.com/calvinwijaya/eight-of-clubs/internal/store"
	"github.com/calvinwijaya/eight-of-clubs/internal/view"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command line flags override the environment
	var (
		port        = flag.String("port", cfg.Port, "Server port")
		frontendURL = flag.String("frontend", cfg.FrontendURL, "Frontend URL for CORS")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the store
	tableStore := store.NewMemoryStore()
	go tableStore.RunJanitor(ctx, cfg.SweepInterval, cfg.TableIdleTTL)
	log.Println("In-memory table store initialized")

	// Initialize WebSocket hub
	hub := api.NewHub()
	go hub.Run()
	defer hub.Stop()
	log.Println("WebSocket hub started")

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	handlers := api.NewHandlers(tableStore, hub, renderer, cfg.ShuffleDelay)

	// Set up router
	r := mux.NewRouter()
	handlers.RegisterRoutes(r)

	// Add middleware for logging
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
		})
	})

	// Configure CORS for JSON clients served from another origin
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{*frontendURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", *port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Block until we receive a termination signal
	<-ctx.Done()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	tables, _ := tableStore.AllTables()
	for _, t := range tables {
		tableStore.DeleteTable(t.ID)
	}
}
