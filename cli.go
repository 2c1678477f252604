package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/dining-area/database"
	"github.com/yeremiapane/dining-area/models"
	"github.com/yeremiapane/dining-area/repository"
	"github.com/yeremiapane/dining-area/services"
	"github.com/yeremiapane/dining-area/utils"
	"gorm.io/gorm"
)

var errNoCommand = errors.New("no command given, see -h")

var now = time.Now

// run menjalankan perintah sesuai flag, urutan: migrate, seed, lalu satu
// perintah lainnya
func run(ctx context.Context, opts *options, svc *services.DiningAreaService, reservations *repository.ReservationRepository, db *gorm.DB) error {
	did := false

	if opts.migrate {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		did = true
	}

	if opts.seed != "" {
		seed, err := database.LoadSeedFile(opts.seed)
		if err != nil {
			return err
		}
		if _, err := database.Seed(ctx, svc, seed); err != nil {
			return err
		}
		did = true
	}

	switch {
	case opts.combine != "":
		areaID, tableIDs, err := parseCombine(opts.combine)
		if err != nil {
			return err
		}
		combo, err := svc.CreateCombo(ctx, areaID, tableIDs)
		if err != nil {
			return err
		}
		return printJSON(combo.ToFloorPlan(nil))

	case opts.split != 0:
		members, err := svc.SplitCombo(ctx, opts.split)
		if err != nil {
			return err
		}
		return printJSON(members)

	case opts.duplicate != 0:
		area, err := svc.Duplicate(ctx, opts.duplicate)
		if err != nil {
			return err
		}
		return printJSON(area)

	case opts.fixTree:
		if err := svc.FixTree(ctx); err != nil {
			return err
		}
		utils.InfoLogger.Println("Dining table tree rebuilt")
		return nil

	case opts.floorPlan != 0:
		plan, err := floorPlanToday(ctx, svc, reservations, opts.floorPlan)
		if err != nil {
			return err
		}
		return printJSON(plan)
	}

	if !did {
		return errNoCommand
	}
	return nil
}

// floorPlanToday -> meja root area beserta reservasi hari ini
func floorPlanToday(ctx context.Context, svc *services.DiningAreaService, reservations *repository.ReservationRepository, areaID uint) ([]models.FloorPlanTable, error) {
	area, err := svc.GetArea(ctx, areaID)
	if err != nil {
		return nil, err
	}

	t := now()
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	list, err := reservations.FindBetween(ctx, area.LocationID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	return svc.TablesWithReservations(ctx, areaID, list)
}

// parseCombine: "3:10,11,12" -> area 3, meja [10 11 12]
func parseCombine(arg string) (uint, []uint, error) {
	areaPart, tablesPart, ok := strings.Cut(arg, ":")
	if !ok {
		return 0, nil, fmt.Errorf("invalid -combine %q, expected <areaID>:<id,id,...>", arg)
	}

	areaID, err := strconv.ParseUint(strings.TrimSpace(areaPart), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid area id %q: %w", areaPart, err)
	}

	var ids []uint
	for _, part := range strings.Split(tablesPart, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid table id %q: %w", part, err)
		}
		ids = append(ids, uint(id))
	}
	return uint(areaID), ids, nil
}
