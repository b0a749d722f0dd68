// Package main seeds a SecretMenu data directory with sample places and
// orders for manual testing.
//
// Writes go through the same services the API uses, so free limits apply
// unless --premium is given. Stop the server first; the stores are locked
// while it runs.
//
// Usage:
//
//	DATA_PATH=~/SecretMenu/data go run ./cmd/seed
//	DATA_PATH=~/SecretMenu/data go run ./cmd/seed --premium  # Mark premium first
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/entitlement"
	"github.com/secretmenu/secretmenu-server/internal/premium"
	"github.com/secretmenu/secretmenu-server/internal/search"
	"github.com/secretmenu/secretmenu-server/internal/service"
	"github.com/secretmenu/secretmenu-server/internal/store"
	"github.com/secretmenu/secretmenu-server/internal/store/sqlite"
)

var makePremium = flag.Bool("premium", false, "Mark the account premium before seeding")

type seedPlace struct {
	name   string
	orders []service.OrderInput
}

var samples = []seedPlace{
	{"Starbucks", []service.OrderInput{
		{Title: "Iced Brown Sugar Oatmilk Shaken Espresso", Details: "Blonde espresso, extra shot, light ice", Tags: []string{"Coffee", "Iced"}},
		{Title: "Pink Drink", Details: "Add vanilla sweet cream cold foam", Tags: []string{"Iced"}},
	}},
	{"Chipotle", []service.OrderInput{
		{Title: "Burrito Bowl", Details: "Double chicken, fajita veggies, half white half brown rice", Tags: []string{"Lunch"}},
	}},
	{"In-N-Out Burger", []service.OrderInput{
		{Title: "Double-Double", Details: "Animal style, chopped chilis, mustard grilled", Tags: []string{"Dinner", "Secret Menu"}},
		{Title: "Fries", Details: "Well done, animal style", Tags: []string{"Secret Menu"}},
	}},
	{"Corner Taqueria", []service.OrderInput{
		{Title: "Super Quesadilla", Details: "Al pastor, add pineapple", Tags: []string{"Dinner"}},
	}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/SecretMenu/data")
	}
	fmt.Printf("Seeding data directory: %s\n", dataPath)

	entities, err := sqlite.Open(filepath.Join(dataPath, "secretmenu.db"), nil)
	if err != nil {
		log.Fatalf("Failed to open entity database: %v", err)
	}
	defer entities.Close()

	prefs, err := store.New(filepath.Join(dataPath, "prefs"), nil)
	if err != nil {
		log.Fatalf("Failed to open preference store: %v", err)
	}
	defer prefs.Close()

	ctx := context.Background()
	limits := entitlement.DefaultLimits()
	pm := premium.NewManager(prefs, premium.Options{
		FreePlaceLimit: limits.FreePlaceLimit,
		FreeOrderLimit: limits.FreeOrderLimit,
		FreePhotoLimit: limits.FreePhotoLimit,
		Location:       time.Local,
	})
	if err := pm.Load(ctx); err != nil {
		log.Fatalf("Failed to load premium state: %v", err)
	}
	if *makePremium {
		if err := pm.SetPremium(ctx, true); err != nil {
			log.Fatalf("Failed to set premium: %v", err)
		}
		fmt.Println("Account marked premium")
	}

	index, err := search.NewSearchIndex(search.Options{DataPath: dataPath})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	data := service.NewDataService(entities, pm, service.DataOptions{
		DuplicatePlacePolicy: service.DuplicateReuse,
		Index:                service.NewSearchService(index, entities, nil),
	})

	var places, orders int
	for _, sp := range samples {
		pr := data.CreatePlace(ctx, sp.name)
		if pr.Kind != service.ResultSuccess {
			fmt.Printf("  stop at place %q: %v\n", sp.name, pr.AsError())
			break
		}
		places++

		for _, in := range sp.orders {
			in.PlaceID = pr.Place.ID
			or := data.CreateOrder(ctx, in)
			if or.Kind != service.ResultSuccess {
				fmt.Printf("  skip order %q: %v\n", in.Title, or.AsError())
				continue
			}
			orders++
		}
		fmt.Printf("  %s\n", sp.name)
	}

	fmt.Printf("\nSeeded %d places and %d orders\n", places, orders)
}
