package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"council-chamber/internal/config"
	"council-chamber/internal/handler"
	"council-chamber/internal/model/persona"
	"council-chamber/internal/service/ai"
	councilService "council-chamber/internal/service/council"
	"council-chamber/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	sessionStore := councilService.NewMemoryStore()

	// Deliberation workers run on the runner's context, detached from
	// request lifetimes.
	runner := worker.New(context.Background())

	var gateway councilService.Gateway
	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Printf("warning: failed to initialize inference gateway: %v", err)
		log.Println("continuing degraded - deliberation and inquiry endpoints will return 503")
	} else {
		gateway = aiService
		log.Printf("inference gateway ready, model=%s at %s", cfg.AI.Model, cfg.AI.BaseURL)
	}

	councilSvc := councilService.NewService(sessionStore, personaStore, gateway, runner)

	router := handler.NewRouter(councilSvc, cfg.AI.BaseURL)

	startServer(ctx, cfg.Server, router, runner)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, runner *worker.Runner) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Council Chamber API listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := runner.Shutdown(drainCtx); err != nil {
		log.Printf("deliberations still in flight at shutdown: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
