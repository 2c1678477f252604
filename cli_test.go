package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dining-area/database"
	"github.com/yeremiapane/dining-area/lang"
	"github.com/yeremiapane/dining-area/models"
	"github.com/yeremiapane/dining-area/repository"
	"github.com/yeremiapane/dining-area/services"
	"github.com/yeremiapane/dining-area/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupCLI(t *testing.T) (*services.DiningAreaService, *repository.ReservationRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return services.NewDiningAreaService(db, lang.NewTranslator("en"), nil), repository.NewReservationRepository(db), db
}

func TestParseCombine(t *testing.T) {
	area, ids, err := parseCombine("3:10, 11,12,")
	require.NoError(t, err)
	assert.Equal(t, uint(3), area)
	assert.Equal(t, []uint{10, 11, 12}, ids)

	_, _, err = parseCombine("10,11")
	assert.Error(t, err)
	_, _, err = parseCombine("x:1")
	assert.Error(t, err)
	_, _, err = parseCombine("1:a,b")
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-migrate", "-combine", "1:2,3", "-floor-plan", "4"})
	require.NoError(t, err)
	assert.True(t, opts.migrate)
	assert.Equal(t, "1:2,3", opts.combine)
	assert.Equal(t, uint(4), opts.floorPlan)

	_, err = parseFlags([]string{"-split", "abc"})
	assert.Error(t, err)
}

func TestRunWithoutCommand(t *testing.T) {
	svc, reservations, db := setupCLI(t)
	assert.ErrorIs(t, run(context.Background(), &options{}, svc, reservations, db), errNoCommand)
}

func TestRunMigrateSeedAndCombine(t *testing.T) {
	svc, reservations, db := setupCLI(t)
	ctx := context.Background()

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(`
sections:
  - {location_id: 1, name: Window}
areas:
  - location_id: 1
    name: Main Hall
    is_active: true
    tables:
      - {name: T1, section: Window, min_capacity: 2, max_capacity: 4}
      - {name: T2, section: Window, min_capacity: 2, max_capacity: 4}
`), 0o644))

	require.NoError(t, run(ctx, &options{migrate: true, seed: seedPath}, svc, reservations, db))

	areas, err := svc.ListAreas(ctx, false)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	tables, err := svc.ListTables(ctx, areas[0].ID)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	arg := fmt.Sprintf("%d:%d,%d", areas[0].ID, tables[0].ID, tables[1].ID)
	require.NoError(t, run(ctx, &options{combine: arg}, svc, reservations, db))

	count, err := svc.TableCount(ctx, areas[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = run(ctx, &options{combine: arg}, svc, reservations, db)
	assert.ErrorIs(t, err, services.ErrTableAlreadyCombined)
}

func TestFloorPlanTodayUsesTodaysReservations(t *testing.T) {
	svc, reservations, db := setupCLI(t)
	ctx := context.Background()
	require.NoError(t, database.AutoMigrate(db))

	fixed := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	area := &models.DiningArea{LocationID: 1, Name: "Main Hall", IsActive: true}
	require.NoError(t, svc.CreateArea(ctx, area))
	table := &models.DiningTable{DiningAreaID: area.ID, Name: "T1", MinCapacity: 1, MaxCapacity: 2, IsEnabled: true}
	require.NoError(t, svc.CreateTable(ctx, table))

	yesterday := &models.Reservation{LocationID: 1, GuestName: "Budi", GuestCount: 2, ReservedAt: fixed.AddDate(0, 0, -1), Tables: []models.DiningTable{{ID: table.ID}}}
	today := &models.Reservation{LocationID: 1, GuestName: "Sari", GuestCount: 2, ReservedAt: fixed.Add(7 * time.Hour), Tables: []models.DiningTable{{ID: table.ID}}}
	require.NoError(t, reservations.Create(ctx, yesterday))
	require.NoError(t, reservations.Create(ctx, today))

	plan, err := floorPlanToday(ctx, svc, reservations, area.ID)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	require.NotNil(t, plan[0].Reservation)
	assert.Equal(t, "Sari", plan[0].Reservation.GuestName)

	_, err = floorPlanToday(ctx, svc, reservations, 999)
	assert.ErrorIs(t, err, services.ErrAreaNotFound)
}
