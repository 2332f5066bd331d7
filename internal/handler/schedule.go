package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/club-table-booking/internal/service"
)

// ScheduleHandler exposes the booking calendar and its admin overrides.
type ScheduleHandler struct {
	Schedule *service.ScheduleService
}

func NewScheduleHandler(s *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Schedule: s}
}

type dateReq struct {
	Date string `json:"date"`
}

// ListDates returns the resolved selectable dates, cancelled ones flagged.
func (h *ScheduleHandler) ListDates(c echo.Context) error {
	dates, err := h.Schedule.SelectableDates(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dates)
}

// GetOverrides returns the cancelled and special event date sets.
func (h *ScheduleHandler) GetOverrides(c echo.Context) error {
	o, err := h.Schedule.Overrides(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *ScheduleHandler) CancelDate(c echo.Context) error {
	return h.fromBody(c, h.Schedule.CancelDate)
}

func (h *ScheduleHandler) RestoreDate(c echo.Context) error {
	return h.fromParam(c, h.Schedule.RestoreDate)
}

func (h *ScheduleHandler) AddSpecialDate(c echo.Context) error {
	return h.fromBody(c, h.Schedule.AddSpecialDate)
}

func (h *ScheduleHandler) RemoveSpecialDate(c echo.Context) error {
	return h.fromParam(c, h.Schedule.RemoveSpecialDate)
}

type dateMutation func(ctx context.Context, date string) ([]string, error)

func (h *ScheduleHandler) fromBody(c echo.Context, fn dateMutation) error {
	var req dateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.respond(c, fn, req.Date)
}

func (h *ScheduleHandler) fromParam(c echo.Context, fn dateMutation) error {
	return h.respond(c, fn, c.Param("date"))
}

func (h *ScheduleHandler) respond(c echo.Context, fn dateMutation, date string) error {
	dates, err := fn(c.Request().Context(), date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": dates})
}
