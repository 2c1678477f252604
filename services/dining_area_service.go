package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dining-area/events"
	"github.com/yeremiapane/dining-area/lang"
	"github.com/yeremiapane/dining-area/models"
	"github.com/yeremiapane/dining-area/repository"
	"github.com/yeremiapane/dining-area/utils"
	"gorm.io/gorm"
)

// DiningAreaService menangani operasi dining area beserta meja dan combo-nya
type DiningAreaService struct {
	db       *gorm.DB
	lang     Translator
	locker   Locker
	validate *validator.Validate
}

// NewDiningAreaService membuat instance baru DiningAreaService. locker nil
// berarti MemoryLocker.
func NewDiningAreaService(db *gorm.DB, tr Translator, locker Locker) *DiningAreaService {
	if locker == nil {
		locker = NewMemoryLocker()
	}
	return &DiningAreaService{
		db:       db,
		lang:     tr,
		locker:   locker,
		validate: validator.New(),
	}
}

//
// Dining area
//

func (s *DiningAreaService) CreateArea(ctx context.Context, area *models.DiningArea) error {
	if err := s.validate.Struct(area); err != nil {
		return fmt.Errorf("invalid dining area: %w", err)
	}
	return repository.NewDiningAreaRepository(s.db).Create(ctx, area)
}

func (s *DiningAreaService) UpdateArea(ctx context.Context, area *models.DiningArea) error {
	if err := s.validate.Struct(area); err != nil {
		return fmt.Errorf("invalid dining area: %w", err)
	}
	if err := repository.NewDiningAreaRepository(s.db).Update(ctx, area); err != nil {
		return s.areaError(err)
	}
	events.BroadcastMessage(events.Message{Event: events.EventAreaUpdate, Data: area})
	return nil
}

func (s *DiningAreaService) GetArea(ctx context.Context, id uint) (*models.DiningArea, error) {
	area, err := repository.NewDiningAreaRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, s.areaError(err)
	}
	return area, nil
}

// ListAreas -> semua area, atau hanya yang aktif
func (s *DiningAreaService) ListAreas(ctx context.Context, activeOnly bool) ([]models.DiningArea, error) {
	repo := repository.NewDiningAreaRepository(s.db)
	if activeOnly {
		return repo.FindAll(ctx, models.WhereIsActive)
	}
	return repo.FindAll(ctx)
}

// DeleteArea -> hapus area beserta semua mejanya dalam satu transaksi
func (s *DiningAreaService) DeleteArea(ctx context.Context, id uint) error {
	err := s.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		areas := repository.NewDiningAreaRepository(tx)
		area, err := areas.FindByID(ctx, id)
		if err != nil {
			return s.areaError(err)
		}

		tables := repository.NewDiningTableRepository(tx)
		list, err := tables.FindByArea(ctx, id)
		if err != nil {
			return err
		}
		if err := tables.DeleteTables(ctx, list); err != nil {
			return fmt.Errorf("delete tables of area %d: %w", id, err)
		}
		if err := areas.Delete(ctx, area); err != nil {
			return err
		}
		return repository.NewNestedSet(tx).FixTree(ctx, true)
	})
	if err != nil {
		return err
	}

	events.BroadcastMessage(events.Message{Event: events.EventAreaDelete, Data: map[string]interface{}{"dining_area_id": id}})
	utils.InfoLogger.Printf("Dining area %d deleted", id)
	return nil
}

// DropdownOptions -> id => nama area
func (s *DiningAreaService) DropdownOptions(ctx context.Context) (map[uint]string, error) {
	areas, err := repository.NewDiningAreaRepository(s.db).FindAll(ctx)
	if err != nil {
		return nil, err
	}
	options := make(map[uint]string, len(areas))
	for _, a := range areas {
		options[a.ID] = a.Name
	}
	return options, nil
}

//
// Sections
//

func (s *DiningAreaService) CreateSection(ctx context.Context, section *models.DiningSection) error {
	if err := s.validate.Struct(section); err != nil {
		return fmt.Errorf("invalid dining section: %w", err)
	}
	return repository.NewDiningSectionRepository(s.db).Create(ctx, section)
}

// ListSections -> section yang dipakai area, dicari lewat location_id area
func (s *DiningAreaService) ListSections(ctx context.Context, areaID uint) ([]models.DiningSection, error) {
	area, err := s.GetArea(ctx, areaID)
	if err != nil {
		return nil, err
	}
	return repository.NewDiningSectionRepository(s.db).FindByLocation(ctx, area.LocationID)
}

//
// Tables
//

// CreateTable -> tambah meja tunggal ke area lalu perbaiki index tree
func (s *DiningAreaService) CreateTable(ctx context.Context, table *models.DiningTable) error {
	if err := s.validate.Struct(table); err != nil {
		return fmt.Errorf("invalid dining table: %w", err)
	}
	return s.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := repository.NewDiningAreaRepository(tx).FindByID(ctx, table.DiningAreaID); err != nil {
			return s.areaError(err)
		}
		if err := repository.NewDiningTableRepository(tx).CreateTable(ctx, table); err != nil {
			return err
		}
		return repository.NewNestedSet(tx).FixTree(ctx, true)
	})
}

// ListTables -> semua meja area (solo dan combo)
func (s *DiningAreaService) ListTables(ctx context.Context, areaID uint, scopes ...func(*gorm.DB) *gorm.DB) ([]models.DiningTable, error) {
	return repository.NewDiningTableRepository(s.db).FindByArea(ctx, areaID, scopes...)
}

// TableCount -> jumlah meja yang tersedia (root), combo dihitung satu
func (s *DiningAreaService) TableCount(ctx context.Context, areaID uint) (int64, error) {
	return repository.NewDiningTableRepository(s.db).CountByArea(ctx, areaID, models.WhereIsRoot)
}

//
// Floor plan
//

func (s *DiningAreaService) TablesForFloorPlan(ctx context.Context, areaID uint) ([]models.FloorPlanTable, error) {
	tables, err := repository.NewDiningTableRepository(s.db).FindByArea(ctx, areaID, models.WhereIsRoot)
	if err != nil {
		return nil, err
	}
	plan := make([]models.FloorPlanTable, 0, len(tables))
	for i := range tables {
		plan = append(plan, tables[i].ToFloorPlan(nil))
	}
	return plan, nil
}

// TablesWithReservations -> seperti TablesForFloorPlan, setiap meja membawa
// reservasi pertama yang memakai meja tersebut
func (s *DiningAreaService) TablesWithReservations(ctx context.Context, areaID uint, reservations []models.Reservation) ([]models.FloorPlanTable, error) {
	tables, err := repository.NewDiningTableRepository(s.db).FindByArea(ctx, areaID, models.WhereIsRoot)
	if err != nil {
		return nil, err
	}

	plan := make([]models.FloorPlanTable, 0, len(tables))
	for i := range tables {
		var match *models.Reservation
		for j := range reservations {
			if reservations[j].HasTable(tables[i].ID) {
				match = &reservations[j]
				break
			}
		}
		plan = append(plan, tables[i].ToFloorPlan(match))
	}
	return plan, nil
}

//
// Helpers
//

// Duplicate -> salin area dengan nama "<nama> (copy)" beserta semua meja
// non-combo. Combo tidak ikut disalin sehingga link parent dilepas.
func (s *DiningAreaService) Duplicate(ctx context.Context, areaID uint) (*models.DiningArea, error) {
	var copied *models.DiningArea
	err := s.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		areas := repository.NewDiningAreaRepository(tx)
		area, err := areas.FindByID(ctx, areaID, "DiningTables")
		if err != nil {
			return s.areaError(err)
		}

		copied = area.Replicate()
		copied.Name = area.Name + " " + s.message(lang.KeyCopySuffix, "(copy)")
		if err := areas.Create(ctx, copied); err != nil {
			return err
		}

		tables := repository.NewDiningTableRepository(tx)
		for i := range area.DiningTables {
			if area.DiningTables[i].IsCombo {
				continue
			}
			table := area.DiningTables[i].Replicate()
			table.DiningAreaID = copied.ID
			if err := tables.CreateTable(ctx, table); err != nil {
				return fmt.Errorf("copy table %s: %w", table.Name, err)
			}
		}
		return repository.NewNestedSet(tx).FixTree(ctx, true)
	})
	if err != nil {
		return nil, err
	}

	events.BroadcastMessage(events.Message{
		Event: events.EventAreaDuplicated,
		Data:  map[string]interface{}{"source_id": areaID, "dining_area_id": copied.ID},
	})
	utils.InfoLogger.Printf("Dining area %d duplicated as %d (%s)", areaID, copied.ID, copied.Name)
	return copied, nil
}

// CreateCombo -> gabungkan meja tableIDs (urutan dipertahankan). Seluruh
// proses berjalan dalam satu transaksi dan di bawah lock per meja, jadi dua
// combine dengan meja yang sama tidak bisa lolos cek parent bersamaan.
func (s *DiningAreaService) CreateCombo(ctx context.Context, areaID uint, tableIDs []uint) (*models.DiningTable, error) {
	ids := uniqueIDs(tableIDs)
	if len(ids) == 0 {
		return nil, newDomainError(s.lang, ErrNoTables, lang.KeyNoTablesSelected)
	}

	unlock, err := s.lockTables(ctx, ids)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var combo *models.DiningTable
	err = s.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := repository.NewDiningAreaRepository(tx).FindByID(ctx, areaID); err != nil {
			return s.areaError(err)
		}

		tables := repository.NewDiningTableRepository(tx)
		list, err := tables.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(list) != len(ids) {
			return newDomainError(s.lang, ErrTableNotFound, lang.KeyTableNotFound)
		}

		builder := NewTableComboBuilder(tables, repository.NewNestedSet(tx), s.lang)
		combo, err = builder.Combine(ctx, list)
		return err
	})
	if err != nil {
		if IsDomainError(err) {
			utils.InfoLogger.WithFields(logrus.Fields{
				"dining_area_id": areaID,
				"table_ids":      ids,
			}).Infof("Combine rejected: %v", err)
		} else {
			utils.ErrorLogger.WithField("dining_area_id", areaID).Errorf("Combine failed: %v", err)
		}
		return nil, err
	}

	events.BroadcastTableCombined(combo.ID, ids)
	return combo, nil
}

// SplitCombo -> bubarkan combo: lepas parent anggota (quiet), hapus combo,
// lalu perbaiki tree. Mengembalikan meja anggota.
func (s *DiningAreaService) SplitCombo(ctx context.Context, comboID uint) ([]models.DiningTable, error) {
	var members []models.DiningTable
	err := s.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		tables := repository.NewDiningTableRepository(tx)
		combo, err := tables.FindByID(ctx, comboID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newDomainError(s.lang, ErrTableNotFound, lang.KeyTableNotFound)
			}
			return err
		}
		if !combo.IsCombo {
			return newDomainError(s.lang, ErrNotACombo, lang.KeyTableNotCombo)
		}

		members = combo.Children
		for i := range members {
			members[i].ParentID = nil
			if err := tables.UpdateTable(ctx, &members[i], true); err != nil {
				return fmt.Errorf("unlink table %d: %w", members[i].ID, err)
			}
		}

		combo.Children = nil
		if err := tables.DeleteTables(ctx, []models.DiningTable{*combo}); err != nil {
			return err
		}
		return repository.NewNestedSet(tx).FixTree(ctx, true)
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	events.BroadcastComboSplit(comboID, ids)
	utils.InfoLogger.WithFields(logrus.Fields{"combo_id": comboID, "table_ids": ids}).Info("Combo table split")
	return members, nil
}

// FixTree -> perbaiki index tree secara manual (dipakai CLI)
func (s *DiningAreaService) FixTree(ctx context.Context) error {
	return repository.NewNestedSet(s.db).FixTree(ctx, true)
}

// transaction -> jalankan fn dalam satu transaksi. Event dari hook model
// ditahan dan baru dikirim setelah commit.
func (s *DiningAreaService) transaction(ctx context.Context, fn func(ctx context.Context, tx *gorm.DB) error) error {
	ctx, buf := events.WithBuffer(ctx)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
	if err != nil {
		return err
	}
	buf.Flush()
	return nil
}

func (s *DiningAreaService) areaError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newDomainError(s.lang, ErrAreaNotFound, lang.KeyAreaNotFound)
	}
	return err
}

func (s *DiningAreaService) message(key, fallback string) string {
	if s.lang == nil {
		return fallback
	}
	return s.lang.Message(key)
}

// lockTables mengunci meja dalam urutan id menaik supaya tidak deadlock
func (s *DiningAreaService) lockTables(ctx context.Context, ids []uint) (func(), error) {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	unlocks := make([]func(), 0, len(sorted))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, id := range sorted {
		unlock, err := s.locker.Lock(ctx, tableLockKey(id))
		if err != nil {
			release()
			return nil, fmt.Errorf("lock dining table %d: %w", id, err)
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

func tableLockKey(tableID uint) string {
	return fmt.Sprintf("dining_table:%d", tableID)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
