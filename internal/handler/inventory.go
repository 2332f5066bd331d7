package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/service"
)

// InventoryHandler serves the ordered table and terrain collections.
type InventoryHandler struct {
	Inventory *service.InventoryService
}

func NewInventoryHandler(inv *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{Inventory: inv}
}

type tableReq struct {
	Name string          `json:"name"`
	Size model.TableSize `json:"size"`
}

type terrainReq struct {
	Name     string                `json:"name"`
	Category model.TerrainCategory `json:"category"`
	ImageURL string                `json:"imageUrl"`
}

type reorderReq struct {
	DraggedID string `json:"dragged_id"`
	TargetID  string `json:"target_id"`
}

// ---- Tables ----

func (h *InventoryHandler) ListTables(c echo.Context) error {
	tables, err := h.Inventory.Tables(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *InventoryHandler) CreateTable(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	t, err := h.Inventory.AddTable(c.Request().Context(), service.TablePatch{Name: req.Name, Size: req.Size})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *InventoryHandler) UpdateTable(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	t, err := h.Inventory.UpdateTable(c.Request().Context(), c.Param("id"), service.TablePatch{Name: req.Name, Size: req.Size})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *InventoryHandler) DeleteTable(c echo.Context) error {
	if err := h.Inventory.RemoveTable(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReorderTables moves dragged_id into target_id's slot and returns the new
// order.  Unknown ids leave the order unchanged.
func (h *InventoryHandler) ReorderTables(c echo.Context) error {
	var req reorderReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	tables, err := h.Inventory.ReorderTables(c.Request().Context(), req.DraggedID, req.TargetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tables)
}

// ---- Terrain ----

func (h *InventoryHandler) ListTerrain(c echo.Context) error {
	boxes, err := h.Inventory.TerrainBoxes(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, boxes)
}

func (h *InventoryHandler) CreateTerrain(c echo.Context) error {
	var req terrainReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	t, err := h.Inventory.AddTerrain(c.Request().Context(), terrainPatch(req))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *InventoryHandler) UpdateTerrain(c echo.Context) error {
	var req terrainReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	t, err := h.Inventory.UpdateTerrain(c.Request().Context(), c.Param("id"), terrainPatch(req))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *InventoryHandler) DeleteTerrain(c echo.Context) error {
	if err := h.Inventory.RemoveTerrain(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHandler) ReorderTerrain(c echo.Context) error {
	var req reorderReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	boxes, err := h.Inventory.ReorderTerrain(c.Request().Context(), req.DraggedID, req.TargetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, boxes)
}

func terrainPatch(r terrainReq) service.TerrainPatch {
	return service.TerrainPatch{Name: r.Name, Category: r.Category, ImageURL: r.ImageURL}
}
