package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/club-table-booking/internal/model"
)

type item struct{ id string }

func (i item) GetID() string { return i.id }

func ids(l orderedList[item]) string {
	var b strings.Builder
	for _, v := range l {
		b.WriteString(v.id)
	}
	return b.String()
}

func list(s string) orderedList[item] {
	out := orderedList[item]{}
	for _, r := range s {
		out = append(out, item{string(r)})
	}
	return out
}

func TestOrderedList_Move(t *testing.T) {
	tests := []struct {
		name, in, dragged, target, want string
		moved                          bool
	}{
		{"forward", "ABCDE", "A", "C", "BCADE", true},
		{"backward", "ABCDE", "D", "B", "ADBCE", true},
		{"to end", "ABCDE", "B", "E", "ACDEB", true},
		{"same id", "ABCDE", "C", "C", "ABCDE", false},
		{"unknown dragged", "ABCDE", "Z", "C", "ABCDE", false},
		{"unknown target", "ABCDE", "A", "Z", "ABCDE", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := list(tt.in)
			out, moved := in.move(tt.dragged, tt.target)
			assert.Equal(t, tt.moved, moved)
			assert.Equal(t, tt.want, ids(out))
			assert.Equal(t, tt.in, ids(in), "input untouched")
		})
	}
}

func TestOrderedList_AdjacentSwapIsInvertible(t *testing.T) {
	l := list("ABCDE")
	once, _ := l.move("B", "C")
	assert.Equal(t, "ACBDE", ids(once))
	back, _ := once.move("C", "B")
	assert.Equal(t, "ABCDE", ids(back))
}

func TestInventory_TableLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	added, err := f.inventory.AddTable(ctx, TablePatch{Name: " Side Table ", Size: model.TableSizeSmall})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(added.ID, CustomIDPrefix))
	assert.Equal(t, "Side Table", added.Name)

	tables, err := f.inventory.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 23)
	assert.Equal(t, added.ID, tables[22].ID, "appended")

	updated, err := f.inventory.UpdateTable(ctx, "L1", TablePatch{Name: "Big One", Size: model.TableSizeLarge})
	require.NoError(t, err)
	assert.Equal(t, "Big One", updated.Name)
	tables, _ = f.inventory.Tables(ctx)
	assert.Equal(t, "Big One", tables[0].Name, "position kept")

	_, err = f.inventory.UpdateTable(ctx, "nope", TablePatch{Name: "x", Size: model.TableSizeLarge})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.inventory.AddTable(ctx, TablePatch{Name: "x", Size: "HUGE"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, f.inventory.RemoveTable(ctx, added.ID))
	assert.ErrorIs(t, f.inventory.RemoveTable(ctx, added.ID), ErrNotFound)
	tables, _ = f.inventory.Tables(ctx)
	assert.Len(t, tables, 22)
}

func TestInventory_ReorderTables(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	got, err := f.inventory.ReorderTables(ctx, "L3", "L1")
	require.NoError(t, err)
	assert.Equal(t, []string{"L3", "L1", "L2"}, []string{got[0].ID, got[1].ID, got[2].ID})

	stored, _ := f.inventory.Tables(ctx)
	assert.Equal(t, got, stored)

	same, err := f.inventory.ReorderTables(ctx, "L3", "missing")
	require.NoError(t, err)
	assert.Equal(t, stored, same)
}

func TestInventory_Terrain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	boxes, err := f.inventory.TerrainBoxes(ctx)
	require.NoError(t, err)
	require.Len(t, boxes, 21)
	assert.Equal(t, "SCIFI-1", boxes[0].ID)

	box, err := f.inventory.AddTerrain(ctx, TerrainPatch{Name: "Jungle", Category: model.TerrainHills})
	require.NoError(t, err)
	assert.NotEmpty(t, box.ImageURL, "category image used when none given")

	box, err = f.inventory.UpdateTerrain(ctx, box.ID, TerrainPatch{Name: "Jungle", Category: model.TerrainHills, ImageURL: "https://img.test/j.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/j.png", box.ImageURL)

	_, err = f.inventory.AddTerrain(ctx, TerrainPatch{Name: "x", Category: "SPACE"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	reordered, err := f.inventory.ReorderTerrain(ctx, box.ID, "SCIFI-1")
	require.NoError(t, err)
	assert.Equal(t, box.ID, reordered[0].ID)

	require.NoError(t, f.inventory.RemoveTerrain(ctx, box.ID))

	name, kind, ok, err := f.inventory.Resource(ctx, "HILLS-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Hills Box 1", name)
	assert.Equal(t, model.ResourceKindTerrain, kind)

	_, _, ok, err = f.inventory.Resource(ctx, box.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
