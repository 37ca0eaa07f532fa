package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gamedex/tierboard/internal/api"
	"github.com/gamedex/tierboard/internal/storage"
)

func main() {
	// Parse flags
	port := flag.String("port", getEnv("PORT", "8080"), "Server port")
	dbPath := flag.String("db", getEnv("DB_PATH", "./tierboard.db"), "SQLite database path")
	flag.Parse()

	// Initialize storage
	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Create router
	r := api.New(store)

	// Serve frontend static files (for production deployment)
	workDir, _ := os.Getwd()
	r.Static("/", http.Dir(filepath.Join(workDir, "../frontend/dist")))

	log.Printf("🚀 Tierboard API starting on http://localhost:%s", *port)
	log.Printf("📦 Database: %s", *dbPath)

	if err := http.ListenAndServe(":"+*port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
