package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sheikh-saqib/wallet-ledger/internal/config"
	"github.com/sheikh-saqib/wallet-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/wallet-ledger/internal/interfaces"
	"github.com/sheikh-saqib/wallet-ledger/internal/ledger"
	"github.com/sheikh-saqib/wallet-ledger/internal/query"
	"github.com/sheikh-saqib/wallet-ledger/internal/server"
	"github.com/sheikh-saqib/wallet-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/wallet-ledger/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	var store interfaces.Store
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		defer db.Close()

		pgStore := postgres.NewStore(db)
		if err := pgStore.Init(context.Background()); err != nil {
			log.Fatalf("init postgres schema: %v", err)
		}
		store = pgStore
		log.Println("Using postgres store")
	} else {
		store = memory.NewStore()
		log.Println("DATABASE_URL not set, using in-memory store")
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing events to %v topic %s", cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	engine := ledger.NewEngine(store, publisher)
	querySvc := query.NewService(store)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.NewServer(engine, querySvc).Router(),
	}

	go func() {
		log.Printf("Starting server on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("Server exited")
}
