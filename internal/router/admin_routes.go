package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/club-table-booking/internal/handler"
	"github.com/iliyamo/club-table-booking/internal/middleware"
	"github.com/iliyamo/club-table-booking/internal/model"
)

// AdminHandlers are the handlers behind /v1/admin.
type AdminHandlers struct {
	Schedule  *handler.ScheduleHandler
	Inventory *handler.InventoryHandler
	Bookings  *handler.BookingHandler
	Users     *handler.AdminUserHandler
}

// RegisterAdmin registers ADMIN-scoped management routes.  invalidate runs
// on every route so successful writes drop cached catalog responses.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string, limit, invalidate echo.MiddlewareFunc) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
		limit,
		invalidate,
	)

	// ---- Tables ----
	g.POST("/tables", h.Inventory.CreateTable)
	g.POST("/tables/reorder", h.Inventory.ReorderTables)
	g.PUT("/tables/:id", h.Inventory.UpdateTable)
	g.DELETE("/tables/:id", h.Inventory.DeleteTable)

	// ---- Terrain ----
	g.POST("/terrain", h.Inventory.CreateTerrain)
	g.POST("/terrain/reorder", h.Inventory.ReorderTerrain)
	g.PUT("/terrain/:id", h.Inventory.UpdateTerrain)
	g.DELETE("/terrain/:id", h.Inventory.DeleteTerrain)

	// ---- Schedule ----
	g.GET("/schedule", h.Schedule.GetOverrides)
	g.POST("/schedule/cancelled", h.Schedule.CancelDate)
	g.DELETE("/schedule/cancelled/:date", h.Schedule.RestoreDate)
	g.POST("/schedule/special", h.Schedule.AddSpecialDate)
	g.DELETE("/schedule/special/:date", h.Schedule.RemoveSpecialDate)

	// ---- Users ----
	g.GET("/users", h.Users.ListUsers)
	g.POST("/users", h.Users.CreateUser)
	g.PUT("/users/:id", h.Users.UpdateUser)
	g.DELETE("/users/:id", h.Users.DeleteUser)

	// ---- Bookings ----
	g.DELETE("/bookings/:id", h.Bookings.RemoveBooking)
}
