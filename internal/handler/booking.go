package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/club-table-booking/internal/service"
)

// BookingHandler exposes booking creation, cancellation and listings.
type BookingHandler struct {
	Bookings *service.BookingService
	Dir      *service.DirectoryService
}

func NewBookingHandler(b *service.BookingService, dir *service.DirectoryService) *BookingHandler {
	return &BookingHandler{Bookings: b, Dir: dir}
}

type createBookingReq struct {
	Date       string `json:"date"`
	ResourceID string `json:"resource_id"`
}

// CreateBooking books a table or terrain box for the caller.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, err := loadActor(c, h.Dir)
	if err != nil {
		return fail(c, err)
	}
	b, err := h.Bookings.Book(c.Request().Context(), actor, req.Date, req.ResourceID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// CancelBooking soft-cancels a booking owned by the caller.  Admins may
// cancel anyone's booking.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	actor, err := loadActor(c, h.Dir)
	if err != nil {
		return fail(c, err)
	}
	b, err := h.Bookings.CancelBooking(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListBookings returns every booking, or only those on ?date= when given.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		all, err := h.Bookings.Bookings(ctx)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, all)
	}
	if !service.ValidDate(date) {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	onDate, err := h.Bookings.BookingsForDate(ctx, date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, onDate)
}

func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	mine, err := h.Bookings.BookingsForUser(c.Request().Context(), uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, mine)
}

// Availability lists every resource with its holder on :date.
func (h *BookingHandler) Availability(c echo.Context) error {
	out, err := h.Bookings.Availability(c.Request().Context(), c.Param("date"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// RemoveBooking hard-deletes a booking.  Admin only.
func (h *BookingHandler) RemoveBooking(c echo.Context) error {
	if err := h.Bookings.RemoveBooking(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
