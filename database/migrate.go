package database

import (
	"github.com/yeremiapane/dining-area/models"
	"github.com/yeremiapane/dining-area/utils"
	"gorm.io/gorm"
)

// AutoMigrate membuat atau memperbarui tabel dining area, section, meja dan
// reservasi
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.DiningArea{},
		&models.DiningSection{},
		&models.DiningTable{},
		&models.Reservation{},
	)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to AutoMigrate: %v", err)
		return err
	}

	// index gabungan untuk pencarian subtree
	if !db.Migrator().HasIndex(&models.DiningTable{}, "idx_dining_tables_nest") {
		if err := db.Exec("CREATE INDEX idx_dining_tables_nest ON dining_tables (nest_left, nest_right)").Error; err != nil {
			utils.ErrorLogger.Printf("Error creating nested set index: %v", err)
			return err
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
