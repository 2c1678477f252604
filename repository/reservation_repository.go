// repository/reservation_repository.go
package repository

import (
	"context"
	"time"

	"github.com/yeremiapane/dining-area/models"
	"gorm.io/gorm"
)

type ReservationRepository struct {
	DB *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

// Create -> simpan reservasi dan relasi reservation_tables, meja yang
// direferensikan harus sudah ada
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.DB.WithContext(ctx).Omit("Tables.*").Create(reservation).Error
}

// FindBetween -> reservasi location dalam rentang [from, to), beserta mejanya
func (r *ReservationRepository) FindBetween(ctx context.Context, locationID uint, from, to time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.DB.WithContext(ctx).
		Preload("Tables").
		Where("location_id = ? AND reserved_at >= ? AND reserved_at < ?", locationID, from, to).
		Order("reserved_at ASC, id ASC").
		Find(&reservations).Error
	return reservations, err
}
