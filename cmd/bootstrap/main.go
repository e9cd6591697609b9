// Package main prepares the database schema and seed data.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"lexia-api/internal/config"
	"lexia-api/internal/domain/entity"
	"lexia-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	fmt.Println("Running schema migration...")
	db := dataLayer.PgClient.DB()
	if err := db.WithContext(ctx).AutoMigrate(
		&entity.LegalCase{},
		&entity.CasePermission{},
		&entity.DraftingSession{},
		&entity.Conversation{},
		&entity.Message{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	fmt.Println("Schema migration completed.")

	// Optionally seed a demo case for local development.
	ownerID := os.Getenv("BOOTSTRAP_DEMO_OWNER_ID")
	if ownerID == "" {
		fmt.Println("BOOTSTRAP_DEMO_OWNER_ID not set, skipping demo seed.")
		fmt.Println("Bootstrap completed successfully.")
		return
	}

	caratula := os.Getenv("BOOTSTRAP_DEMO_CARATULA")
	if caratula == "" {
		caratula = "Pérez c/ Gómez s/ daños y perjuicios"
	}

	demo := &entity.LegalCase{
		OwnerID:    ownerID,
		Caratula:   caratula,
		Expediente: "DEMO-0001",
	}
	if err := dataLayer.CaseRepo.Create(ctx, demo); err != nil {
		log.Fatalf("failed to seed demo case: %v", err)
	}
	fmt.Printf("Demo case created with ID: %s\n", demo.ID)

	fmt.Println("Bootstrap completed successfully.")
}
