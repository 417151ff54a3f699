package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"veena-assistant-be/internal/bootstrap"
	"veena-assistant-be/internal/config"
	"veena-assistant-be/internal/server"
	"veena-assistant-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Telemetry)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer container.Close()

	// 4. Load static knowledge. Without it no turn can be answered.
	loadCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	k, err := container.Knowledge.Load(loadCtx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load knowledge from %s: %v", cfg.Data.Dir, err)
	}
	log.Printf("Knowledge loaded: %d FAQ entries, %d dialog nodes, %d rebuttals",
		k.FAQ.Len(), k.Tree.Len(), k.Rebuttals.Len())

	// 5. Start Background Services
	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}
	if container.Watcher != nil {
		container.Watcher.Start(ctx)
		log.Printf("Background: Watching %s for changes", cfg.Data.Dir)
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
