package models

import "time"

// DiningSection dibagi per location, semua area di location yang sama
// memakai section yang sama
type DiningSection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LocationID  uint      `gorm:"not null;index" json:"location_id"`
	Name        string    `gorm:"type:varchar(128);not null" json:"name" validate:"required,min=2,max=128"`
	Description string    `gorm:"type:text" json:"description"`
	Priority    int       `gorm:"not null" json:"priority"`
	Color       string    `gorm:"type:varchar(16)" json:"color" validate:"omitempty,hexcolor"`
	IsEnabled   bool      `gorm:"not null" json:"is_enabled"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (DiningSection) TableName() string {
	return "dining_sections"
}
