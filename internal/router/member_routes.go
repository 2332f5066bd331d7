package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/club-table-booking/internal/handler"
	"github.com/iliyamo/club-table-booking/internal/middleware"
	"github.com/iliyamo/club-table-booking/internal/model"
)

// MemberHandlers are the handlers behind the member-facing API.
type MemberHandlers struct {
	Schedule  *handler.ScheduleHandler
	Inventory *handler.InventoryHandler
	Bookings  *handler.BookingHandler
}

// RegisterMember registers the booking API for any signed-in account.
// Whether a member may actually book is decided by the booking service.
// cache is applied to the catalog reads only.
func RegisterMember(e *echo.Echo, h MemberHandlers, jwtSecret string, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleMember),
		limit,
	)

	// ---- Calendar ----
	g.GET("/dates", h.Schedule.ListDates)
	g.GET("/dates/:date/availability", h.Bookings.Availability)

	// ---- Catalog ----
	g.GET("/tables", h.Inventory.ListTables, cache)
	g.GET("/terrain", h.Inventory.ListTerrain, cache)

	// ---- Bookings ----
	g.GET("/bookings", h.Bookings.ListBookings)
	g.GET("/bookings/mine", h.Bookings.MyBookings)
	g.POST("/bookings", h.Bookings.CreateBooking)
	g.POST("/bookings/:id/cancel", h.Bookings.CancelBooking)
}
