package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/storage"
)

// CustomIDPrefix marks inventory created by an admin, as opposed to the
// seeded catalog.
const CustomIDPrefix = "custom-"

type identified interface {
	GetID() string
}

// orderedList is an insertion-ordered list with stable ids.
type orderedList[T identified] []T

func (l orderedList[T]) index(id string) int {
	return slices.IndexFunc(l, func(v T) bool { return v.GetID() == id })
}

// replace swaps in item for the element with the same id.
func (l orderedList[T]) replace(item T) (orderedList[T], bool) {
	i := l.index(item.GetID())
	if i < 0 {
		return l, false
	}
	out := slices.Clone(l)
	out[i] = item
	return out, true
}

func (l orderedList[T]) remove(id string) (orderedList[T], bool) {
	i := l.index(id)
	if i < 0 {
		return l, false
	}
	return slices.Delete(slices.Clone(l), i, i+1), true
}

// move takes the dragged element out of the list and reinserts it at the
// index the target occupied.  Unknown ids and draggedID == targetID leave
// the list untouched.
func (l orderedList[T]) move(draggedID, targetID string) (orderedList[T], bool) {
	if draggedID == targetID {
		return l, false
	}
	from, to := l.index(draggedID), l.index(targetID)
	if from < 0 || to < 0 {
		return l, false
	}
	out := slices.Clone(l)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, item)
	return out, true
}

// TablePatch carries editable table fields.
type TablePatch struct {
	Name string
	Size model.TableSize
}

// TerrainPatch carries editable terrain box fields.
type TerrainPatch struct {
	Name     string
	Category model.TerrainCategory
	ImageURL string
}

// InventoryService manages the ordered table and terrain collections.
type InventoryService struct {
	store storage.Store
	log   *zap.Logger
	newID func() string

	mu sync.Mutex
}

func NewInventoryService(store storage.Store, log *zap.Logger) *InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryService{
		store: store,
		log:   log,
		newID: func() string { return CustomIDPrefix + uuid.NewString() },
	}
}

func (s *InventoryService) Tables(ctx context.Context) ([]model.Table, error) {
	l, err := readList[model.Table](ctx, s.store, storage.KeyTables)
	return []model.Table(l), err
}

func (s *InventoryService) TerrainBoxes(ctx context.Context) ([]model.TerrainBox, error) {
	l, err := readList[model.TerrainBox](ctx, s.store, storage.KeyTerrain)
	return []model.TerrainBox(l), err
}

// Resource looks id up across tables and terrain.  ok is false when the id
// is in neither collection.
func (s *InventoryService) Resource(ctx context.Context, id string) (name, kind string, ok bool, err error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return "", "", false, err
	}
	if i := orderedList[model.Table](tables).index(id); i >= 0 {
		return tables[i].Name, model.ResourceKindTable, true, nil
	}
	terrain, err := s.TerrainBoxes(ctx)
	if err != nil {
		return "", "", false, err
	}
	if i := orderedList[model.TerrainBox](terrain).index(id); i >= 0 {
		return terrain[i].Name, model.ResourceKindTerrain, true, nil
	}
	return "", "", false, nil
}

func (s *InventoryService) AddTable(ctx context.Context, p TablePatch) (model.Table, error) {
	if err := validateTable(p); err != nil {
		return model.Table{}, err
	}
	t := model.Table{ID: s.newID(), Name: strings.TrimSpace(p.Name), Size: p.Size}
	err := s.updateTables(ctx, func(l orderedList[model.Table]) (orderedList[model.Table], error) {
		return append(l, t), nil
	})
	if err != nil {
		return model.Table{}, err
	}
	s.log.Info("table added", zap.String("id", t.ID))
	return t, nil
}

func (s *InventoryService) UpdateTable(ctx context.Context, id string, p TablePatch) (model.Table, error) {
	if err := validateTable(p); err != nil {
		return model.Table{}, err
	}
	t := model.Table{ID: id, Name: strings.TrimSpace(p.Name), Size: p.Size}
	err := s.updateTables(ctx, func(l orderedList[model.Table]) (orderedList[model.Table], error) {
		out, ok := l.replace(t)
		if !ok {
			return nil, ErrNotFound
		}
		return out, nil
	})
	if err != nil {
		return model.Table{}, err
	}
	return t, nil
}

func (s *InventoryService) RemoveTable(ctx context.Context, id string) error {
	return s.updateTables(ctx, func(l orderedList[model.Table]) (orderedList[model.Table], error) {
		out, ok := l.remove(id)
		if !ok {
			return nil, ErrNotFound
		}
		return out, nil
	})
}

// ReorderTables moves draggedID to targetID's position and returns the
// resulting order.
func (s *InventoryService) ReorderTables(ctx context.Context, draggedID, targetID string) ([]model.Table, error) {
	var result orderedList[model.Table]
	err := s.updateTables(ctx, func(l orderedList[model.Table]) (orderedList[model.Table], error) {
		out, moved := l.move(draggedID, targetID)
		result = out
		if !moved {
			return nil, nil
		}
		return out, nil
	})
	return []model.Table(result), err
}

func (s *InventoryService) AddTerrain(ctx context.Context, p TerrainPatch) (model.TerrainBox, error) {
	if err := validateTerrain(p); err != nil {
		return model.TerrainBox{}, err
	}
	t := model.TerrainBox{ID: s.newID(), Name: strings.TrimSpace(p.Name), Category: p.Category, ImageURL: terrainImage(p)}
	err := s.updateTerrain(ctx, func(l orderedList[model.TerrainBox]) (orderedList[model.TerrainBox], error) {
		return append(l, t), nil
	})
	if err != nil {
		return model.TerrainBox{}, err
	}
	s.log.Info("terrain box added", zap.String("id", t.ID))
	return t, nil
}

func (s *InventoryService) UpdateTerrain(ctx context.Context, id string, p TerrainPatch) (model.TerrainBox, error) {
	if err := validateTerrain(p); err != nil {
		return model.TerrainBox{}, err
	}
	t := model.TerrainBox{ID: id, Name: strings.TrimSpace(p.Name), Category: p.Category, ImageURL: terrainImage(p)}
	err := s.updateTerrain(ctx, func(l orderedList[model.TerrainBox]) (orderedList[model.TerrainBox], error) {
		out, ok := l.replace(t)
		if !ok {
			return nil, ErrNotFound
		}
		return out, nil
	})
	if err != nil {
		return model.TerrainBox{}, err
	}
	return t, nil
}

func (s *InventoryService) RemoveTerrain(ctx context.Context, id string) error {
	return s.updateTerrain(ctx, func(l orderedList[model.TerrainBox]) (orderedList[model.TerrainBox], error) {
		out, ok := l.remove(id)
		if !ok {
			return nil, ErrNotFound
		}
		return out, nil
	})
}

func (s *InventoryService) ReorderTerrain(ctx context.Context, draggedID, targetID string) ([]model.TerrainBox, error) {
	var result orderedList[model.TerrainBox]
	err := s.updateTerrain(ctx, func(l orderedList[model.TerrainBox]) (orderedList[model.TerrainBox], error) {
		out, moved := l.move(draggedID, targetID)
		result = out
		if !moved {
			return nil, nil
		}
		return out, nil
	})
	return []model.TerrainBox(result), err
}

func (s *InventoryService) updateTables(ctx context.Context, fn func(orderedList[model.Table]) (orderedList[model.Table], error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateList(ctx, s.store, storage.KeyTables, fn)
}

func (s *InventoryService) updateTerrain(ctx context.Context, fn func(orderedList[model.TerrainBox]) (orderedList[model.TerrainBox], error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateList(ctx, s.store, storage.KeyTerrain, fn)
}

func readList[T identified](ctx context.Context, store storage.Store, key string) (orderedList[T], error) {
	l, _, err := storage.ReadJSON[orderedList[T]](ctx, store, key)
	if err != nil {
		return nil, remote("read "+key, err)
	}
	if l == nil {
		l = orderedList[T]{}
	}
	return l, nil
}

// updateList reads the list under key, applies fn and writes the result.
// A nil result from fn means nothing changed and skips the write.
func updateList[T identified](ctx context.Context, store storage.Store, key string, fn func(orderedList[T]) (orderedList[T], error)) error {
	l, err := readList[T](ctx, store, key)
	if err != nil {
		return err
	}
	out, err := fn(l)
	if err != nil || out == nil {
		return err
	}
	if err := storage.WriteJSON(ctx, store, key, out); err != nil {
		return remote("write "+key, err)
	}
	return nil
}

func validateTable(p TablePatch) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name is required")
	}
	if !p.Size.Valid() {
		return invalid("size must be SMALL or LARGE")
	}
	return nil
}

func validateTerrain(p TerrainPatch) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name is required")
	}
	if !p.Category.Valid() {
		return invalid("unknown terrain category %q", p.Category)
	}
	return nil
}

func terrainImage(p TerrainPatch) string {
	if u := strings.TrimSpace(p.ImageURL); u != "" {
		return u
	}
	return storage.TerrainImageURL(p.Category)
}
