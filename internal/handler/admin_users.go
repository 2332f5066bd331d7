package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/club-table-booking/internal/service"
)

// AdminUserHandler lets admins manage club accounts.
type AdminUserHandler struct {
	Dir *service.DirectoryService
}

func NewAdminUserHandler(dir *service.DirectoryService) *AdminUserHandler {
	return &AdminUserHandler{Dir: dir}
}

type createUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
	IsAdmin  bool   `json:"is_admin"`
}

type updateUserReq struct {
	Name     *string `json:"name"`
	IsMember *bool   `json:"is_member"`
	IsAdmin  *bool   `json:"is_admin"`
}

func (h *AdminUserHandler) ListUsers(c echo.Context) error {
	users, err := h.Dir.ListUsers(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminUserHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	u, err := h.Dir.CreateAccount(c.Request().Context(), req.Email, req.Password, req.Name, req.IsMember, req.IsAdmin)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// UpdateUser applies a partial profile update; omitted fields are kept.
func (h *AdminUserHandler) UpdateUser(c echo.Context) error {
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	u, err := h.Dir.UpdateProfile(c.Request().Context(), c.Param("id"), service.ProfilePatch{
		Name:     req.Name,
		IsMember: req.IsMember,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AdminUserHandler) DeleteUser(c echo.Context) error {
	actor, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Dir.DeleteAccount(c.Request().Context(), actor, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
