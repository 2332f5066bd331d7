package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/club-table-booking/internal/middleware"
	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/service"
	"github.com/iliyamo/club-table-booking/internal/utils"
)

// AuthHandler exposes sign-in, token refresh and self-service account
// endpoints.
type AuthHandler struct {
	Dir       *service.DirectoryService
	JWTSecret string
}

func NewAuthHandler(dir *service.DirectoryService, jwtSecret string) *AuthHandler {
	return &AuthHandler{Dir: dir, JWTSecret: jwtSecret}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type passwordReq struct {
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    model.User `json:"user"`
	Access  tokenPart  `json:"access"`
	Refresh tokenPart  `json:"refresh"`
}

func sessionResp(s service.Session) authResp {
	return authResp{
		User:    s.User,
		Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
		Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp}, // raw back to client
	}
}

// Login: verify credentials and return a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	s, err := h.Dir.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(s))
}

// Refresh: validate by hash, revoke old, issue new.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	s, err := h.Dir.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(s))
}

// RefreshAccess returns a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	access, err := h.Dir.RefreshAccess(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the refresh token in the body, or every session of the
// bearer when no refresh token is supplied.  It does not require JWTAuth so
// a client holding only a refresh token can still sign out.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, _ := getUserID(c)
	if uid == "" {
		if raw, ok := middleware.BearerToken(c); ok {
			if claims, err := utils.ParseAccessToken(h.JWTSecret, raw); err == nil {
				uid = claims.UserID
			}
		}
	}
	var req refreshReq
	_ = c.Bind(&req)

	if err := h.Dir.SignOut(c.Request().Context(), uid, req.RefreshToken); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := loadActor(c, h.Dir)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// ChangePassword sets a new password for the caller.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.Dir.SetPassword(c.Request().Context(), uid, req.Password); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
