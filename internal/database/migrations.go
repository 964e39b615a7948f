package database

import (
	"fmt"

	"gorm.io/gorm"

	"partsrecv/internal/config"
	"partsrecv/internal/models"
)

// Migrate creates or updates the schema and seeds the singleton sync-state
// row plus the configured known-dealer directory.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if err := db.AutoMigrate(
		&models.ScanRecord{},
		&models.PurchaseOrder{},
		&models.ShipmentLine{},
		&models.Dealer{},
		&models.SyncState{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	// Singleton version row.
	var state models.SyncState
	if err := db.FirstOrCreate(&state, models.SyncState{ID: 1}).Error; err != nil {
		return fmt.Errorf("failed to seed sync state: %w", err)
	}

	// Seed known dealers from config without clobbering operator edits.
	for _, d := range cfg.KnownDealers {
		var existing models.Dealer
		if err := db.Where("code = ?", d.Code).First(&existing).Error; err == nil {
			continue
		}
		seed := models.Dealer{Code: d.Code, Name: d.Name, Contact: d.Contact, Email: d.Email}
		if err := db.Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to seed dealer %s: %w", d.Code, err)
		}
	}
	return nil
}
