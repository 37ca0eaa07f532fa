package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/gamedex/tierboard/internal/models"
	"github.com/gamedex/tierboard/internal/storage"
)

type seedFile struct {
	OwnerID int           `json:"owner_id"`
	Items   []models.Item `json:"items"`
}

func main() {
	dbPath := flag.String("db", "./tierboard.db", "SQLite database path")
	seedsDir := flag.String("seeds", "./seeds", "Seeds directory")
	flag.Parse()

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	files, err := filepath.Glob(filepath.Join(*seedsDir, "*.json"))
	if err != nil {
		log.Fatalf("Failed to list seeds: %v", err)
	}

	for _, file := range files {
		if err := seedCatalog(store, file); err != nil {
			log.Printf("Warning: failed to seed %s: %v", file, err)
		} else {
			log.Printf("✓ Seeded catalog from %s", file)
		}
	}

	log.Println("🌱 Seeding complete!")
}

func seedCatalog(store *storage.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return err
	}

	for i := range seed.Items {
		if seed.Items[i].OwnerID == 0 {
			seed.Items[i].OwnerID = seed.OwnerID
		}
	}

	return store.BulkCreateItems(seed.Items)
}
