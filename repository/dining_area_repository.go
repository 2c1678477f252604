// repository/dining_area_repository.go
package repository

import (
	"context"

	"github.com/yeremiapane/dining-area/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DiningAreaRepository struct {
	DB *gorm.DB
}

func NewDiningAreaRepository(db *gorm.DB) *DiningAreaRepository {
	return &DiningAreaRepository{DB: db}
}

func (r *DiningAreaRepository) Create(ctx context.Context, area *models.DiningArea) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(area).Error
}

// Update -> simpan atribut area saja, meja diurus lewat DiningTableRepository.
// Area yang tidak ada menghasilkan gorm.ErrRecordNotFound.
func (r *DiningAreaRepository) Update(ctx context.Context, area *models.DiningArea) error {
	res := r.DB.WithContext(ctx).Select("*").Omit(clause.Associations).Updates(area)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DiningAreaRepository) Delete(ctx context.Context, area *models.DiningArea) error {
	return r.DB.WithContext(ctx).Delete(area).Error
}

// FindByID -> ambil area, preload berisi nama relasi (misal "DiningTables")
func (r *DiningAreaRepository) FindByID(ctx context.Context, id uint, preloads ...string) (*models.DiningArea, error) {
	q := r.DB.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}

	var area models.DiningArea
	if err := q.First(&area, id).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

// FindAll -> semua area, urut berdasarkan nama
func (r *DiningAreaRepository) FindAll(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]models.DiningArea, error) {
	var areas []models.DiningArea
	err := r.DB.WithContext(ctx).
		Scopes(scopes...).
		Order("name ASC, id ASC").
		Find(&areas).Error
	return areas, err
}
