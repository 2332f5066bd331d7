package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/club-table-booking/internal/handler"
	"github.com/iliyamo/club-table-booking/internal/middleware"
	"github.com/iliyamo/club-table-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers sign-in and session routes.  Token exchange lives
// under /v1/auth and needs no session; /v1/me requires a valid access
// token.  limit is applied to the unauthenticated group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)          // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleMember),
	)
	auth.GET("/me", a.Me)
	auth.PUT("/me/password", a.ChangePassword)
	auth.POST("/logout", a.Logout)
}
