package database

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/yeremiapane/dining-area/models"
	"github.com/yeremiapane/dining-area/services"
	"github.com/yeremiapane/dining-area/utils"
	"gopkg.in/yaml.v3"
)

// SeedFile adalah format file seed:
//
//	sections:
//	  - location_id: 1
//	    name: Window
//	areas:
//	  - location_id: 1
//	    name: Main Hall
//	    is_active: true
//	    tables:
//	      - {name: T1, section: Window, min_capacity: 2, max_capacity: 4}
//	    combos:
//	      - [T1, T2]
type SeedFile struct {
	Sections []SeedSection `yaml:"sections"`
	Areas    []SeedArea    `yaml:"areas"`
}

type SeedSection struct {
	LocationID  uint   `yaml:"location_id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Priority    int    `yaml:"priority"`
	Color       string `yaml:"color"`
	Disabled    bool   `yaml:"disabled"`
}

type SeedArea struct {
	LocationID uint        `yaml:"location_id"`
	Name       string      `yaml:"name"`
	IsActive   bool        `yaml:"is_active"`
	Tables     []SeedTable `yaml:"tables"`
	Combos     [][]string  `yaml:"combos"`
}

type SeedTable struct {
	Name          string `yaml:"name"`
	Section       string `yaml:"section"`
	Shape         string `yaml:"shape"`
	MinCapacity   int    `yaml:"min_capacity"`
	MaxCapacity   int    `yaml:"max_capacity"`
	ExtraCapacity int    `yaml:"extra_capacity"`
	Priority      int    `yaml:"priority"`
	Disabled      bool   `yaml:"disabled"`
}

// SeedResult -> jumlah data yang dibuat
type SeedResult struct {
	Sections int
	Areas    int
	Tables   int
	Combos   int
}

func LoadSeedFile(path string) (*SeedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSeed(f)
}

func DecodeSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &seed, nil
}

// Seed membuat section, area, meja lalu combo lewat DiningAreaService, jadi
// aturan combine yang sama tetap berlaku untuk data seed
func Seed(ctx context.Context, svc *services.DiningAreaService, seed *SeedFile) (*SeedResult, error) {
	result := &SeedResult{}

	// location_id -> nama section -> id
	sections := make(map[uint]map[string]uint)
	for _, s := range seed.Sections {
		section := &models.DiningSection{
			LocationID:  s.LocationID,
			Name:        s.Name,
			Description: s.Description,
			Priority:    s.Priority,
			Color:       s.Color,
			IsEnabled:   !s.Disabled,
		}
		if err := svc.CreateSection(ctx, section); err != nil {
			return result, fmt.Errorf("seed section %s: %w", s.Name, err)
		}
		if sections[s.LocationID] == nil {
			sections[s.LocationID] = make(map[string]uint)
		}
		sections[s.LocationID][s.Name] = section.ID
		result.Sections++
	}

	for _, a := range seed.Areas {
		area := &models.DiningArea{LocationID: a.LocationID, Name: a.Name, IsActive: a.IsActive}
		if err := svc.CreateArea(ctx, area); err != nil {
			return result, fmt.Errorf("seed area %s: %w", a.Name, err)
		}
		result.Areas++

		tableIDs := make(map[string]uint, len(a.Tables))
		for _, t := range a.Tables {
			table := &models.DiningTable{
				DiningAreaID:  area.ID,
				Name:          t.Name,
				Shape:         t.Shape,
				MinCapacity:   t.MinCapacity,
				MaxCapacity:   t.MaxCapacity,
				ExtraCapacity: t.ExtraCapacity,
				Priority:      t.Priority,
				IsEnabled:     !t.Disabled,
			}
			if table.Shape == "" {
				table.Shape = "rectangle"
			}
			if t.Section != "" {
				id, ok := sections[a.LocationID][t.Section]
				if !ok {
					return result, fmt.Errorf("seed table %s: unknown section %q", t.Name, t.Section)
				}
				table.DiningSectionID = &id
			}
			if err := svc.CreateTable(ctx, table); err != nil {
				return result, fmt.Errorf("seed table %s: %w", t.Name, err)
			}
			tableIDs[t.Name] = table.ID
			result.Tables++
		}

		for _, names := range a.Combos {
			ids := make([]uint, 0, len(names))
			for _, name := range names {
				id, ok := tableIDs[name]
				if !ok {
					return result, fmt.Errorf("seed combo in %s: unknown table %q", a.Name, name)
				}
				ids = append(ids, id)
			}
			if _, err := svc.CreateCombo(ctx, area.ID, ids); err != nil {
				return result, fmt.Errorf("seed combo %v: %w", names, err)
			}
			result.Combos++
		}
	}

	utils.InfoLogger.Printf("Seeded %d sections, %d areas, %d tables, %d combos",
		result.Sections, result.Areas, result.Tables, result.Combos)
	return result, nil
}
