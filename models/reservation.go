package models

import "time"

type Reservation struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	LocationID uint          `gorm:"not null;index" json:"location_id"`
	GuestName  string        `gorm:"type:varchar(128);not null" json:"guest_name"`
	GuestCount int           `gorm:"not null" json:"guest_count"`
	ReservedAt time.Time     `gorm:"not null;index" json:"reserved_at"`
	Status     string        `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Tables     []DiningTable `gorm:"many2many:reservation_tables" json:"tables,omitempty"`
	CreatedAt  time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null" json:"updated_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// HasTable -> apakah reservasi ini memakai meja dengan id tersebut
func (r *Reservation) HasTable(tableID uint) bool {
	for _, t := range r.Tables {
		if t.ID == tableID {
			return true
		}
	}
	return false
}
