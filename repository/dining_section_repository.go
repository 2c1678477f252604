// repository/dining_section_repository.go
package repository

import (
	"context"

	"github.com/yeremiapane/dining-area/models"
	"gorm.io/gorm"
)

type DiningSectionRepository struct {
	DB *gorm.DB
}

func NewDiningSectionRepository(db *gorm.DB) *DiningSectionRepository {
	return &DiningSectionRepository{DB: db}
}

func (r *DiningSectionRepository) Create(ctx context.Context, section *models.DiningSection) error {
	return r.DB.WithContext(ctx).Create(section).Error
}

// FindByLocation -> section milik location, prioritas tertinggi duluan
func (r *DiningSectionRepository) FindByLocation(ctx context.Context, locationID uint) ([]models.DiningSection, error) {
	var sections []models.DiningSection
	err := r.DB.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("priority DESC, id ASC").
		Find(&sections).Error
	return sections, err
}

func (r *DiningSectionRepository) FindByName(ctx context.Context, locationID uint, name string) (*models.DiningSection, error) {
	var section models.DiningSection
	err := r.DB.WithContext(ctx).
		Where("location_id = ? AND name = ?", locationID, name).
		First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}
