package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/imkonsowa/vibe-eats/catalog"
	"github.com/imkonsowa/vibe-eats/config"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "path to the config file")
	catalogPath := flag.String("file", "./config/seed.json", "path to the catalog JSON file")
	migrateOnly := flag.Bool("migrate-only", false, "create the schema and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	store, err := catalog.Open(cfg)
	if err != nil {
		log.Fatal("failed to open catalog:", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatal(err)
	}
	slog.Info("catalog schema is up to date", "driver", cfg.Catalog.Driver)

	if *migrateOnly {
		return
	}

	file, err := ReadCatalogFile(*catalogPath)
	if err != nil {
		log.Fatal(err)
	}

	restaurants := file.ToModels()
	if err := store.Create(ctx, restaurants); err != nil {
		log.Fatal("failed to seed catalog:", err)
	}

	menuItems := 0
	for _, r := range restaurants {
		menuItems += len(r.MenuItems)
	}
	slog.Info("seeded catalog", "restaurants", len(restaurants), "menu_items", menuItems)
}
