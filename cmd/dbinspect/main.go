// Package main prints what a SecretMenu data directory holds: entity counts
// from the SQLite database, stored preferences and paired devices.
//
// Usage:
//
//	DATA_PATH=~/SecretMenu/data go run ./cmd/dbinspect
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/SecretMenu/data")
	}

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	inspectEntities(filepath.Join(dataPath, "secretmenu.db"))
	inspectPreferences(filepath.Join(dataPath, "prefs"))
}

func inspectEntities(path string) {
	db, err := sqlite.Open(path, nil)
	if err != nil {
		log.Fatalf("Failed to open entity database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	counts := []struct {
		label string
		count func(context.Context) (int, error)
	}{
		{"Places", db.CountPlaces},
		{"Orders", db.CountOrders},
		{"Orders with photos", db.CountOrdersWithPhotos},
		{"Tags", db.CountTags},
	}

	fmt.Println("Entities:")
	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			log.Fatalf("Failed to count %s: %v", strings.ToLower(c.label), err)
		}
		fmt.Printf("  %-20s %d\n", c.label+":", n)
	}
	fmt.Println()
}

func inspectPreferences(path string) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open preference store: %v", err)
	}
	defer db.Close()

	var devices []domain.Device
	fmt.Println("Preferences:")
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(val []byte) error {
				switch {
				case strings.HasPrefix(key, "pref:"):
					fmt.Printf("  %-24s %s\n", strings.TrimPrefix(key, "pref:"), val)
				case strings.HasPrefix(key, "device:"):
					var d domain.Device
					if err := json.Unmarshal(val, &d); err != nil {
						return fmt.Errorf("decode %s: %w", key, err)
					}
					devices = append(devices, d)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to read preferences: %v", err)
	}
	fmt.Println()

	fmt.Printf("Paired devices: %d\n", len(devices))
	for _, d := range devices {
		fmt.Printf("  %s  %-20s %-8s last seen %s\n", d.ID, d.Name, d.Platform, d.LastSeenAt.Format("2006-01-02 15:04"))
	}
}
