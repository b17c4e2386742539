package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/messreview-backend/config"
	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/app/service"
	"github.com/ikkim/messreview-backend/internal/db"
	"github.com/ikkim/messreview-backend/pkg/logger"
)

// Loads a menu workbook (date | meal_slot | name | description) into the
// database, attributed to an existing user.
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> <contributor_email>")
	}
	filePath, email := os.Args[1], os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	contributor, err := userRepo.FindByEmail(strings.ToLower(email))
	if err != nil {
		log.Fatalf("Contributor %s not found: %v", email, err)
	}
	if contributor.Role != model.RoleAdmin {
		fmt.Printf("Warning: %s is not an admin; items will be attributed to them anyway\n", email)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	loc, _ := cfg.Schedule.Location()
	importService := service.NewImportService(
		repository.NewFoodItemRepository(db.GetDB()),
		nil,
		schedule.NewClock(loc, nil),
		nil,
	)

	fmt.Printf("Importing %s as %s\n", filePath, contributor.Name)
	result, err := importService.ImportMenuXLSX(context.Background(), data, contributor.ID)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	for _, e := range result.Errors {
		fmt.Println("  skipped", e)
	}
	fmt.Println("Import completed successfully!")
	fmt.Printf("Imported: %d, skipped: %d\n", result.Imported, result.Skipped)
}
