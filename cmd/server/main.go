/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payout engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STORE SELECTION:
  - MONGO_URI + MONGO_DATABASE set (env or .env): MongoDB calendar store
  - otherwise: SQLite at -db (use ":memory:" for an in-memory database)

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: payouts.db)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain for 30s, close the
  store, exit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/payout-engine/api"
	"github.com/warp/payout-engine/payout"
	"github.com/warp/payout-engine/store/memory"
	mongostore "github.com/warp/payout-engine/store/mongo"
	"github.com/warp/payout-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "payouts.db", "SQLite database path")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	calendars, closeStore, err := openStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeStore()

	// Worked-hours capture lives in another subsystem; the stub keeps the
	// hours endpoint functional in standalone runs.
	var events payout.EventStore = &memory.Events{}

	handler := api.NewHandler(calendars, events)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func openStore(dbPath string) (payout.CalendarStore, func(), error) {
	uri := os.Getenv("MONGO_URI")
	database := os.Getenv("MONGO_DATABASE")

	if uri != "" && database != "" {
		client, err := mongostore.NewClient(mongostore.Config{URI: uri, Database: database})
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using MongoDB store (%s)", database)
		return mongostore.NewStore(client), func() {
			if err := client.Close(); err != nil {
				log.Printf("Error closing MongoDB connection: %v", err)
			}
		}, nil
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Using SQLite store (%s)", dbPath)
	return store, func() { store.Close() }, nil
}
