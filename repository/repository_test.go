package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dining-area/events"
	"github.com/yeremiapane/dining-area/models"
	"github.com/yeremiapane/dining-area/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB memakai SQLite in-memory dengan nama unik per test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DiningArea{}, &models.DiningSection{}, &models.DiningTable{}, &models.Reservation{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func drain(ch chan events.Message) []events.Message {
	var out []events.Message
	for {
		select {
		case msg := <-ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func countEvents(msgs []events.Message, event string) int {
	n := 0
	for _, m := range msgs {
		if m.Event == event {
			n++
		}
	}
	return n
}

func newTable(areaID uint, name string) *models.DiningTable {
	return &models.DiningTable{DiningAreaID: areaID, Name: name, Shape: "round", MinCapacity: 2, MaxCapacity: 4, IsEnabled: true}
}

func TestUpdateTableQuietSkipsHooks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiningTableRepository(db)
	ctx := context.Background()

	sub := events.Subscribe(t.Name(), 16)
	defer events.Unsubscribe(sub)

	table := newTable(1, "T1")
	require.NoError(t, repo.CreateTable(ctx, table))
	assert.Equal(t, 1, countEvents(drain(sub), events.EventTableCreate))

	table.MaxCapacity = 6
	require.NoError(t, repo.UpdateTable(ctx, table, true))
	assert.Empty(t, drain(sub))

	table.MaxCapacity = 8
	require.NoError(t, repo.UpdateTable(ctx, table, false))
	assert.Equal(t, 1, countEvents(drain(sub), events.EventTableUpdate))

	stored, err := repo.FindByID(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.MaxCapacity)
}

func TestFindByIDsKeepsRequestedOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiningTableRepository(db)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.CreateTable(ctx, newTable(1, name)))
	}

	tables, err := repo.FindByIDs(ctx, []uint{3, 1, 42, 2})
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, "C", tables[0].Name)
	assert.Equal(t, "A", tables[1].Name)
	assert.Equal(t, "B", tables[2].Name)
}

func TestFixTreeRebuildsNestedSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiningTableRepository(db)
	tree := NewNestedSet(db)
	ctx := context.Background()

	a, b := newTable(1, "A"), newTable(1, "B")
	combo := newTable(1, "A/B")
	combo.IsCombo = true
	solo := newTable(1, "D")
	orphan := newTable(2, "E")
	for _, tbl := range []*models.DiningTable{a, b, combo, solo, orphan} {
		require.NoError(t, repo.CreateTable(ctx, tbl))
	}

	a.ParentID, b.ParentID = &combo.ID, &combo.ID
	missing := uint(999)
	orphan.ParentID = &missing
	for _, tbl := range []*models.DiningTable{a, b, orphan} {
		require.NoError(t, repo.UpdateTable(ctx, tbl, true))
	}

	require.NoError(t, tree.FixTree(ctx, true))

	load := func(id uint) *models.DiningTable {
		tbl, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		return tbl
	}

	gotCombo, gotA, gotB, gotSolo, gotOrphan := load(combo.ID), load(a.ID), load(b.ID), load(solo.ID), load(orphan.ID)

	assert.Equal(t, [2]int{1, 6}, [2]int{gotCombo.NestLeft, gotCombo.NestRight})
	assert.Equal(t, [2]int{2, 3}, [2]int{gotA.NestLeft, gotA.NestRight})
	assert.Equal(t, [2]int{4, 5}, [2]int{gotB.NestLeft, gotB.NestRight})
	assert.Equal(t, [2]int{7, 8}, [2]int{gotSolo.NestLeft, gotSolo.NestRight})
	assert.Equal(t, [2]int{9, 10}, [2]int{gotOrphan.NestLeft, gotOrphan.NestRight})

	assert.True(t, gotCombo.IsAncestorOf(gotA))
	assert.True(t, gotCombo.IsAncestorOf(gotB))
	assert.False(t, gotCombo.IsAncestorOf(gotSolo))
	assert.Nil(t, gotOrphan.ParentID)
	assert.Len(t, gotCombo.Children, 2)

	// kedua kali tidak ada perubahan
	before := gotCombo.UpdatedAt
	require.NoError(t, tree.FixTree(ctx, true))
	assert.Equal(t, before, load(combo.ID).UpdatedAt)
}

func TestFixTreeBreaksCycles(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiningTableRepository(db)
	ctx := context.Background()

	a, b := newTable(1, "A"), newTable(1, "B")
	require.NoError(t, repo.CreateTable(ctx, a))
	require.NoError(t, repo.CreateTable(ctx, b))
	a.ParentID, b.ParentID = &b.ID, &a.ID
	require.NoError(t, repo.UpdateTable(ctx, a, true))
	require.NoError(t, repo.UpdateTable(ctx, b, true))

	require.NoError(t, NewNestedSet(db).FixTree(ctx, true))

	gotA, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)

	assert.Nil(t, gotA.ParentID)
	require.NotNil(t, gotB.ParentID)
	assert.Equal(t, a.ID, *gotB.ParentID)
	assert.True(t, gotA.IsAncestorOf(gotB))
}

func TestFindByAreaScopes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiningTableRepository(db)
	ctx := context.Background()

	a, b := newTable(1, "A"), newTable(1, "B")
	combo := newTable(1, "A/B")
	combo.IsCombo = true
	other := newTable(2, "X")
	for _, tbl := range []*models.DiningTable{a, b, combo, other} {
		require.NoError(t, repo.CreateTable(ctx, tbl))
	}
	a.ParentID = &combo.ID
	require.NoError(t, repo.UpdateTable(ctx, a, true))

	all, err := repo.FindByArea(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	combos, err := repo.FindByArea(ctx, 1, models.WhereIsCombo)
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Equal(t, "A/B", combos[0].Name)

	solos, err := repo.FindByArea(ctx, 1, models.WhereIsNotCombo)
	require.NoError(t, err)
	assert.Len(t, solos, 2)

	roots, err := repo.CountByArea(ctx, 1, models.WhereIsRoot)
	require.NoError(t, err)
	assert.Equal(t, int64(2), roots)
}

func TestDeleteTablesPublishesPerTable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiningTableRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateTable(ctx, newTable(1, "A")))
	require.NoError(t, repo.CreateTable(ctx, newTable(1, "B")))

	tables, err := repo.FindByArea(ctx, 1)
	require.NoError(t, err)

	sub := events.Subscribe(t.Name(), 16)
	defer events.Unsubscribe(sub)

	require.NoError(t, repo.DeleteTables(ctx, tables))
	assert.Equal(t, 2, countEvents(drain(sub), events.EventTableDelete))

	count, err := repo.CountByArea(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateDoesNotResurrectDeletedRows(t *testing.T) {
	db := setupTestDB(t)
	tables := NewDiningTableRepository(db)
	areas := NewDiningAreaRepository(db)
	ctx := context.Background()

	table := newTable(1, "A")
	require.NoError(t, tables.CreateTable(ctx, table))
	require.NoError(t, tables.DeleteTables(ctx, []models.DiningTable{*table}))

	table.MaxCapacity = 6
	assert.ErrorIs(t, tables.UpdateTable(ctx, table, true), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, tables.UpdateTable(ctx, table, false), gorm.ErrRecordNotFound)
	count, err := tables.CountByArea(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	area := &models.DiningArea{LocationID: 1, Name: "Terrace"}
	require.NoError(t, areas.Create(ctx, area))
	require.NoError(t, areas.Delete(ctx, area))

	area.Name = "Rooftop"
	assert.ErrorIs(t, areas.Update(ctx, area), gorm.ErrRecordNotFound)
	all, err := areas.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestHooksRespectEventBuffer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiningTableRepository(db)

	sub := events.Subscribe(t.Name(), 16)
	defer events.Unsubscribe(sub)

	ctx, buf := events.WithBuffer(context.Background())
	table := newTable(1, "A")
	require.NoError(t, repo.CreateTable(ctx, table))
	table.MaxCapacity = 6
	require.NoError(t, repo.UpdateTable(ctx, table, false))

	assert.Empty(t, drain(sub))
	assert.Equal(t, 2, buf.Len())

	buf.Flush()
	msgs := drain(sub)
	require.Len(t, msgs, 2)
	assert.Equal(t, events.EventTableCreate, msgs[0].Event)
	assert.Equal(t, events.EventTableUpdate, msgs[1].Event)
}
