package models

import (
	"time"

	"gorm.io/datatypes"
)

type FloorPlanReservation struct {
	ID         uint      `json:"id"`
	GuestName  string    `json:"guest_name"`
	GuestCount int       `json:"guest_count"`
	ReservedAt time.Time `json:"reserved_at"`
	Status     string    `json:"status"`
}

// FloorPlanTable adalah bentuk meja yang dikirim ke editor floor plan
type FloorPlanTable struct {
	ID            uint                  `json:"id"`
	Name          string                `json:"name"`
	Shape         string                `json:"shape"`
	MinCapacity   int                   `json:"min_capacity"`
	MaxCapacity   int                   `json:"max_capacity"`
	ExtraCapacity int                   `json:"extra_capacity"`
	IsCombo       bool                  `json:"is_combo"`
	IsEnabled     bool                  `json:"is_enabled"`
	SectionID     *uint                 `json:"section_id"`
	Priority      int                   `json:"priority"`
	SeatLayout    datatypes.JSON        `json:"seat_layout,omitempty"`
	ComboTables   []string              `json:"combo_tables,omitempty"`
	Reservation   *FloorPlanReservation `json:"reservation"`
}

// ToFloorPlan mengubah meja menjadi entri floor plan. Children harus
// di-preload supaya nama anggota combo ikut terisi.
func (t *DiningTable) ToFloorPlan(reservation *Reservation) FloorPlanTable {
	entry := FloorPlanTable{
		ID:            t.ID,
		Name:          t.Name,
		Shape:         t.Shape,
		MinCapacity:   t.MinCapacity,
		MaxCapacity:   t.MaxCapacity,
		ExtraCapacity: t.ExtraCapacity,
		IsCombo:       t.IsCombo,
		IsEnabled:     t.IsEnabled,
		SectionID:     t.DiningSectionID,
		Priority:      t.Priority,
		SeatLayout:    t.SeatLayout,
	}

	for _, child := range t.Children {
		entry.ComboTables = append(entry.ComboTables, child.Name)
	}

	if reservation != nil {
		entry.Reservation = &FloorPlanReservation{
			ID:         reservation.ID,
			GuestName:  reservation.GuestName,
			GuestCount: reservation.GuestCount,
			ReservedAt: reservation.ReservedAt,
			Status:     reservation.Status,
		}
	}

	return entry
}
