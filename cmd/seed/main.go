// Command seed fills the database with demo users, categories, tools and favorites.
package main

import (
	"context"
	"flag"
	"log"

	"toolnest/internal/config"
	"toolnest/internal/database"
	"toolnest/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numCategories := flag.Int("categories", defaults.CategoriesPerUser, "Categories per user")
	numTools := flag.Int("tools", defaults.ToolsPerUser, "Tools per user")
	numFavorites := flag.Int("favorites", defaults.FavoritesPerUser, "Favorites per user")
	randSeed := flag.Int64("seed", 0, "Random seed (0 uses the clock)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	provider := database.NewProvider(cfg)
	defer func() { _ = provider.Close() }()

	db, err := provider.Acquire(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := defaults
	opts.NumUsers = *numUsers
	opts.CategoriesPerUser = *numCategories
	opts.ToolsPerUser = *numTools
	opts.FavoritesPerUser = *numFavorites
	opts.RandSeed = *randSeed
	s := seed.NewSeeder(db, opts)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	summary, err := s.Seed(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d categories, %d tools, %d favorites",
		summary.Users, summary.Categories, summary.Tools, summary.Favorites)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
