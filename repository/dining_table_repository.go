// repository/dining_table_repository.go
package repository

import (
	"context"

	"github.com/yeremiapane/dining-area/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DiningTableRepository struct {
	DB *gorm.DB
}

func NewDiningTableRepository(db *gorm.DB) *DiningTableRepository {
	return &DiningTableRepository{DB: db}
}

// CreateTable -> insert meja baru, hook AfterCreate tetap jalan
func (r *DiningTableRepository) CreateTable(ctx context.Context, table *models.DiningTable) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(table).Error
}

// UpdateTable -> simpan semua kolom meja. quiet=true melewati hook model,
// jadi tidak ada notifikasi yang dikirim untuk perubahan ini. Meja yang
// sudah terhapus menghasilkan gorm.ErrRecordNotFound, tidak di-insert ulang.
func (r *DiningTableRepository) UpdateTable(ctx context.Context, table *models.DiningTable, quiet bool) error {
	res := r.session(ctx, quiet).Select("*").Omit(clause.Associations).Updates(table)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTables -> hapus beberapa meja sekaligus, hook AfterDelete per meja
func (r *DiningTableRepository) DeleteTables(ctx context.Context, tables []models.DiningTable) error {
	if len(tables) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Delete(&tables).Error
}

func (r *DiningTableRepository) FindByID(ctx context.Context, id uint) (*models.DiningTable, error) {
	var table models.DiningTable
	if err := r.DB.WithContext(ctx).Preload("Children").First(&table, id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// FindByIDs mengembalikan meja dalam urutan ids. ID yang tidak ada dilewati.
func (r *DiningTableRepository) FindByIDs(ctx context.Context, ids []uint) ([]*models.DiningTable, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []*models.DiningTable
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.DiningTable, len(rows))
	for _, t := range rows {
		byID[t.ID] = t
	}

	ordered := make([]*models.DiningTable, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

// FindByArea -> semua meja di area, bisa dipersempit dengan scope
// (models.WhereIsCombo, models.WhereIsNotCombo, models.WhereIsRoot)
func (r *DiningTableRepository) FindByArea(ctx context.Context, areaID uint, scopes ...func(*gorm.DB) *gorm.DB) ([]models.DiningTable, error) {
	var tables []models.DiningTable
	err := r.DB.WithContext(ctx).
		Scopes(scopes...).
		Where("dining_area_id = ?", areaID).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("nest_left ASC, id ASC")
		}).
		Order("priority DESC, nest_left ASC, id ASC").
		Find(&tables).Error
	return tables, err
}

func (r *DiningTableRepository) CountByArea(ctx context.Context, areaID uint, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.DiningTable{}).
		Scopes(scopes...).
		Where("dining_area_id = ?", areaID).
		Count(&count).Error
	return count, err
}

func (r *DiningTableRepository) session(ctx context.Context, quiet bool) *gorm.DB {
	db := r.DB.WithContext(ctx)
	if quiet {
		db = db.Session(&gorm.Session{SkipHooks: true})
	}
	return db
}
