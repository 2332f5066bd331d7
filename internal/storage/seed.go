package storage

import (
	"context"
	"fmt"

	"github.com/iliyamo/club-table-booking/internal/model"
)

// DefaultTables returns the first-run table catalog: sixteen large tables
// followed by six small ones.
func DefaultTables() []model.Table {
	tables := make([]model.Table, 0, 22)
	for i := 1; i <= 16; i++ {
		tables = append(tables, model.Table{
			ID:   fmt.Sprintf("L%d", i),
			Name: fmt.Sprintf("Large Table %d", i),
			Size: model.TableSizeLarge,
		})
	}
	for i := 1; i <= 6; i++ {
		tables = append(tables, model.Table{
			ID:   fmt.Sprintf("S%d", i),
			Name: fmt.Sprintf("Small Table %d", i),
			Size: model.TableSizeSmall,
		})
	}
	return tables
}

type terrainSeed struct {
	category model.TerrainCategory
	idPrefix string
	label    string
	count    int
}

var terrainCatalog = []terrainSeed{
	{model.TerrainSciFi, "SCIFI", "Sci-Fi Box", 10},
	{model.TerrainHistorical, "HIST", "Historical Box", 4},
	{model.TerrainFantasy, "FANT", "Fantasy Box", 2},
	{model.TerrainAoS, "AOS", "AoS Box", 2},
	{model.TerrainWarhammer40K, "40K", "40k Box", 2},
	{model.TerrainHills, "HILLS", "Hills Box", 1},
}

var terrainImages = map[model.TerrainCategory]struct{ color, text string }{
	model.TerrainSciFi:        {"1e293b", "Sci-Fi+Set"},
	model.TerrainHistorical:   {"3f2c22", "Historical+Set"},
	model.TerrainFantasy:      {"064e3b", "Fantasy+Set"},
	model.TerrainAoS:          {"450a0a", "AoS+Realm"},
	model.TerrainWarhammer40K: {"172554", "40k+Ruins"},
	model.TerrainHills:        {"365314", "Hills+Pack"},
	model.TerrainModern:       {"4b5563", "Modern+Set"},
}

// TerrainImageURL returns the placeholder preview image for a category.
func TerrainImageURL(c model.TerrainCategory) string {
	img, ok := terrainImages[c]
	if !ok {
		return ""
	}
	return fmt.Sprintf("https://placehold.co/400x300/%s/e2e8f0/png?text=%s", img.color, img.text)
}

// DefaultTerrainBoxes returns the first-run terrain catalog.
func DefaultTerrainBoxes() []model.TerrainBox {
	var boxes []model.TerrainBox
	for _, s := range terrainCatalog {
		for i := 1; i <= s.count; i++ {
			boxes = append(boxes, model.TerrainBox{
				ID:       fmt.Sprintf("%s-%d", s.idPrefix, i),
				Category: s.category,
				Name:     fmt.Sprintf("%s %d", s.label, i),
				ImageURL: TerrainImageURL(s.category),
			})
		}
	}
	return boxes
}

// Seed writes the default inventory for any inventory collection that has
// never been written.  Present collections, even empty ones, are left alone.
func Seed(ctx context.Context, s Store) (seeded []string, err error) {
	if _, ok, err := s.Read(ctx, KeyTables); err != nil {
		return nil, fmt.Errorf("seed read tables: %w", err)
	} else if !ok {
		if err := WriteJSON(ctx, s, KeyTables, DefaultTables()); err != nil {
			return nil, fmt.Errorf("seed tables: %w", err)
		}
		seeded = append(seeded, KeyTables)
	}
	if _, ok, err := s.Read(ctx, KeyTerrain); err != nil {
		return seeded, fmt.Errorf("seed read terrain: %w", err)
	} else if !ok {
		if err := WriteJSON(ctx, s, KeyTerrain, DefaultTerrainBoxes()); err != nil {
			return seeded, fmt.Errorf("seed terrain: %w", err)
		}
		seeded = append(seeded, KeyTerrain)
	}
	return seeded, nil
}
