package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DiningArea struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	LocationID   uint           `gorm:"not null;index" json:"location_id"`
	Name         string         `gorm:"type:varchar(128);not null" json:"name" validate:"required,min=2,max=128"`
	FloorPlan    datatypes.JSON `json:"floor_plan,omitempty"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	DiningTables []DiningTable  `gorm:"foreignKey:DiningAreaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"dining_tables,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (DiningArea) TableName() string {
	return "dining_areas"
}

// WhereIsActive -> scope untuk area yang aktif
func WhereIsActive(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// Replicate menyalin atribut area tanpa ID, timestamp dan relasi
func (a *DiningArea) Replicate() *DiningArea {
	return &DiningArea{
		LocationID: a.LocationID,
		Name:       a.Name,
		FloorPlan:  append(datatypes.JSON(nil), a.FloorPlan...),
		IsActive:   a.IsActive,
	}
}
