package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/club-table-booking/internal/middleware"
	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/service"
)

var errNoIdentity = errors.New("invalid user_id in context")

// getUserID extracts the authenticated user id set by JWTAuth.
func getUserID(c echo.Context) (string, error) {
	if v, ok := c.Get(middleware.CtxUserID).(string); ok && v != "" {
		return v, nil
	}
	return "", errNoIdentity
}

// loadActor resolves the caller's account so membership and admin flags
// come from the directory rather than from the token.  A token whose
// account no longer exists yields 401.
func loadActor(c echo.Context, dir *service.DirectoryService) (model.User, error) {
	uid, err := getUserID(c)
	if err != nil {
		return model.User{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	u, err := dir.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return model.User{}, err
	}
	if u == nil {
		return model.User{}, echo.NewHTTPError(http.StatusUnauthorized, "unknown account")
	}
	return *u, nil
}

// fail writes err, passing echo.HTTPErrors through unchanged.
func fail(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	return handleError(c, err)
}
