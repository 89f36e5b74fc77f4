// cmd/portfolio-admin/main.go - Entry point for the admin dashboard
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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/noor-latif/portfolio-admin/internal/api"
	"github.com/noor-latif/portfolio-admin/internal/config"
	"github.com/noor-latif/portfolio-admin/internal/handlers"
	"github.com/noor-latif/portfolio-admin/internal/otel"
	"github.com/noor-latif/portfolio-admin/internal/store"
)

func main() {
	// Config
	cfg, err := config.LoadDashboard()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	flag.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "portfolio API base URL")
	flag.DurationVar(&cfg.APITimeout, "timeout", cfg.APITimeout, "portfolio API request timeout")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log every project store state change")
	flag.Parse()

	log.SetPrefix("[WEB] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "portfolio-admin", cfg.OTel)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Init API client and store
	client, err := api.NewClient(cfg.APIBaseURL, api.WithTimeout(cfg.APITimeout))
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}
	projects := store.New(client)
	if cfg.Debug {
		projects.Subscribe(store.LogChanges(log.Default()))
	}
	log.Printf("Using portfolio API: %s", client.BaseURL)

	handler := handlers.New(projects, client, nil)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	handler.Routes(r)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("🚀 Portfolio admin starting on http://localhost%s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	log.Printf("Portfolio admin stopped")
}
