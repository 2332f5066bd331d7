package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/club-table-booking/internal/config"
	"github.com/iliyamo/club-table-booking/internal/utils"
)

const testSecret = "test-secret"

func newProtected(roles ...string) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", JWTAuth(testSecret))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get(CtxUserID), "role": c.Get(CtxRole)})
	})
	return e
}

func do(t *testing.T, e *echo.Echo, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_MissingToken(t *testing.T) {
	rec := do(t, newProtected(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	rec := do(t, newProtected(), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuth_SetsIdentity(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "u-1", "MEMBER", 5)
	require.NoError(t, err)

	rec := do(t, newProtected(), tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"u-1","role":"MEMBER"}`, rec.Body.String())
}

func TestRequireRole_Forbidden(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "u-1", "MEMBER", 5)
	require.NoError(t, err)

	rec := do(t, newProtected("ADMIN"), tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "u-9", "ADMIN", 5)
	require.NoError(t, err)

	rec := do(t, newProtected("ADMIN"), tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNilRedis_Passthrough(t *testing.T) {
	e := echo.New()
	calls := 0
	h := func(c echo.Context) error { calls++; return c.NoContent(http.StatusNoContent) }
	e.GET("/x", h,
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, zap.NewNop()),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		InvalidateCache(config.CacheConfig{Enabled: true}, nil, zap.NewNop()),
	)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayload_EncodeDecode(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[1,2]`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `[1,2]`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestBuildRateKey_Strategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings")
	c.Set(CtxUserID, "u-1")

	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:user:u-1", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
	assert.Equal(t, "rl:ip:10.0.0.1:user:u-1:route:POST /v1/bookings",
		buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func TestCacheKeyFrom_QuerySensitive(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	mk := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/v1/tables")
		return cacheKeyFrom(cfg, c)
	}
	assert.Equal(t, mk("/v1/tables?a=1"), mk("/v1/tables?a=1"))
	assert.NotEqual(t, mk("/v1/tables?a=1"), mk("/v1/tables?a=2"))
	assert.Contains(t, mk("/v1/tables"), "cache:")
}
