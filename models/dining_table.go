package models

import (
	"time"

	"github.com/yeremiapane/dining-area/events"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DiningTable bisa berupa meja tunggal atau meja combo. Anggota combo
// menunjuk ke combo lewat ParentID, nest_left/nest_right adalah index
// nested set yang dibangun ulang oleh tree repair.
type DiningTable struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	DiningAreaID    uint           `gorm:"not null;index" json:"dining_area_id"`
	DiningSectionID *uint          `gorm:"index" json:"dining_section_id"`
	ParentID        *uint          `gorm:"index" json:"parent_id"`
	Children        []DiningTable  `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"children,omitempty"`
	Name            string         `gorm:"type:varchar(128);not null" json:"name" validate:"required,max=128"`
	Shape           string         `gorm:"type:varchar(32);not null" json:"shape"`
	MinCapacity     int            `gorm:"not null" json:"min_capacity" validate:"gte=0"`
	MaxCapacity     int            `gorm:"not null" json:"max_capacity" validate:"gtefield=MinCapacity"`
	ExtraCapacity   int            `gorm:"not null" json:"extra_capacity" validate:"gte=0"`
	IsCombo         bool           `gorm:"not null" json:"is_combo"`
	IsEnabled       bool           `gorm:"not null" json:"is_enabled"`
	Priority        int            `gorm:"not null" json:"priority"`
	SeatLayout      datatypes.JSON `json:"seat_layout,omitempty"`
	NestLeft        int            `gorm:"column:nest_left;not null;index" json:"-"`
	NestRight       int            `gorm:"column:nest_right;not null" json:"-"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (DiningTable) TableName() string {
	return "dining_tables"
}

// Scopes, dipakai seperti relasi dining_table_solos/combos/available_tables

func WhereIsCombo(db *gorm.DB) *gorm.DB {
	return db.Where("is_combo = ?", true)
}

func WhereIsNotCombo(db *gorm.DB) *gorm.DB {
	return db.Where("is_combo = ?", false)
}

func WhereIsRoot(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id IS NULL")
}

func (t *DiningTable) IsRoot() bool {
	return t.ParentID == nil
}

// IsAncestorOf memakai index nested set, hanya valid setelah tree repair
func (t *DiningTable) IsAncestorOf(other *DiningTable) bool {
	return t.NestLeft < other.NestLeft && other.NestRight < t.NestRight
}

// Replicate menyalin meja tanpa ID, parent, index tree dan timestamp
func (t *DiningTable) Replicate() *DiningTable {
	var section *uint
	if t.DiningSectionID != nil {
		id := *t.DiningSectionID
		section = &id
	}
	return &DiningTable{
		DiningAreaID:    t.DiningAreaID,
		DiningSectionID: section,
		Name:            t.Name,
		Shape:           t.Shape,
		MinCapacity:     t.MinCapacity,
		MaxCapacity:     t.MaxCapacity,
		ExtraCapacity:   t.ExtraCapacity,
		IsCombo:         t.IsCombo,
		IsEnabled:       t.IsEnabled,
		Priority:        t.Priority,
		SeatLayout:      append(datatypes.JSON(nil), t.SeatLayout...),
	}
}

//
// Events. Penulisan "quiet" (Session SkipHooks) tidak memanggil hook ini.
// Di dalam transaksi service, event ditahan events.Buffer sampai commit.
//

func (t *DiningTable) AfterCreate(tx *gorm.DB) error {
	events.Publish(tx.Statement.Context, events.Message{Event: events.EventTableCreate, Data: t})
	return nil
}

func (t *DiningTable) AfterUpdate(tx *gorm.DB) error {
	if t.ID != 0 {
		events.Publish(tx.Statement.Context, events.Message{Event: events.EventTableUpdate, Data: t})
	}
	return nil
}

func (t *DiningTable) AfterDelete(tx *gorm.DB) error {
	if t.ID != 0 {
		events.Publish(tx.Statement.Context, events.Message{
			Event: events.EventTableDelete,
			Data:  map[string]interface{}{"table_id": t.ID},
		})
	}
	return nil
}
