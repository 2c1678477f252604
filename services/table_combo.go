package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dining-area/lang"
	"github.com/yeremiapane/dining-area/models"
	"github.com/yeremiapane/dining-area/utils"
)

// TableWriter adalah sisi persistence yang dibutuhkan TableComboBuilder
type TableWriter interface {
	CreateTable(ctx context.Context, table *models.DiningTable) error
	UpdateTable(ctx context.Context, table *models.DiningTable, quiet bool) error
}

// TreeRepairer membangun ulang index tree meja setelah parent diubah
type TreeRepairer interface {
	FixTree(ctx context.Context, quiet bool) error
}

// TableComboBuilder menggabungkan beberapa meja menjadi satu meja combo
type TableComboBuilder struct {
	Tables TableWriter
	Tree   TreeRepairer
	Lang   Translator
}

func NewTableComboBuilder(tables TableWriter, tree TreeRepairer, tr Translator) *TableComboBuilder {
	return &TableComboBuilder{Tables: tables, Tree: tree, Lang: tr}
}

// Combine -> validasi lalu buat meja combo dari tables (urutan dipertahankan
// untuk nama combo). Semua validasi dilakukan sebelum penulisan pertama.
//
// Area dan section combo diambil dari meja pertama. dining_area_id antar
// meja tidak dicek, hanya dining_section_id.
func (b *TableComboBuilder) Combine(ctx context.Context, tables []*models.DiningTable) (*models.DiningTable, error) {
	if len(tables) == 0 {
		return nil, newDomainError(b.Lang, ErrNoTables, lang.KeyNoTablesSelected)
	}

	for _, table := range tables {
		if table.ParentID != nil {
			return nil, newDomainError(b.Lang, ErrTableAlreadyCombined, lang.KeyTableAlreadyCombined)
		}
	}

	if countSections(tables) > 1 {
		return nil, newDomainError(b.Lang, ErrSectionMismatch, lang.KeyTableComboSectionMismatch)
	}

	first := tables[0]
	names := make([]string, 0, len(tables))
	minCapacity, maxCapacity := 0, 0
	for _, table := range tables {
		names = append(names, table.Name)
		minCapacity += table.MinCapacity
		maxCapacity += table.MaxCapacity
	}

	combo := &models.DiningTable{
		Name:            strings.Join(names, "/"),
		Shape:           first.Shape,
		DiningAreaID:    first.DiningAreaID,
		DiningSectionID: copyID(first.DiningSectionID),
		MinCapacity:     minCapacity,
		MaxCapacity:     maxCapacity,
		IsCombo:         true,
		IsEnabled:       true,
	}

	if err := b.Tables.CreateTable(ctx, combo); err != nil {
		return nil, fmt.Errorf("create combo table: %w", err)
	}

	for i, table := range tables {
		table.ParentID = copyID(&combo.ID)
		if err := b.Tables.UpdateTable(ctx, table, true); err != nil {
			// kembalikan state in-memory, rollback database urusan pemanggil
			unlinkAll(tables[:i+1])
			return nil, fmt.Errorf("link table %d to combo %d: %w", table.ID, combo.ID, err)
		}
	}

	if err := b.Tree.FixTree(ctx, true); err != nil {
		unlinkAll(tables)
		return nil, fmt.Errorf("fix table tree: %w", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"combo_id":     combo.ID,
		"combo_name":   combo.Name,
		"table_count":  len(tables),
		"min_capacity": combo.MinCapacity,
		"max_capacity": combo.MaxCapacity,
	}).Info("Dining tables combined")

	return combo, nil
}

// countSections menghitung dining_section_id yang berbeda, nil dihitung
// sebagai satu nilai tersendiri
func countSections(tables []*models.DiningTable) int {
	seen := make(map[uint]struct{}, len(tables))
	hasNil := false
	for _, table := range tables {
		if table.DiningSectionID == nil {
			hasNil = true
			continue
		}
		seen[*table.DiningSectionID] = struct{}{}
	}
	if hasNil {
		return len(seen) + 1
	}
	return len(seen)
}

func unlinkAll(tables []*models.DiningTable) {
	for _, table := range tables {
		table.ParentID = nil
	}
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
