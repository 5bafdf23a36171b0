package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking-api/internal/config"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestErrorHandler_HidesCause(t *testing.T) {
	e := newEcho()
	e.GET("/boom", func(echo.Context) error { return fmt.Errorf("query: %w", errors.New("dial tcp 10.0.0.5:3306")) })

	rec := serve(e, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error interno del servidor"}`, rec.Body.String())
}

func TestErrorHandler_HTTPErrorsBecome500(t *testing.T) {
	e := newEcho()
	e.GET("/bad", func(echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "bad json") })

	rec := serve(e, http.MethodGet, "/bad")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error interno del servidor"}`, rec.Body.String())
}

func TestErrorHandler_RouteErrorsKeepStatus(t *testing.T) {
	e := newEcho()
	e.GET("/rooms", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(e, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())

	rec = serve(e, http.MethodPost, "/rooms")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestErrorHandler_Head(t *testing.T) {
	e := newEcho()
	e.HEAD("/boom", func(echo.Context) error { return errors.New("x") })

	rec := serve(e, http.MethodHead, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorHandler_RecoveredPanic(t *testing.T) {
	e := newEcho()
	e.Use(RequestLogger(zap.NewNop()))
	e.Use(Recover(zap.NewNop()))
	e.GET("/panic", func(echo.Context) error { panic("nil map") })

	rec := serve(e, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error interno del servidor"}`, rec.Body.String())
}

func TestResourceOfAndCacheKey(t *testing.T) {
	assert.Equal(t, "rooms", resourceOf("/rooms/R1"))
	assert.Equal(t, "bookings", resourceOf("/bookings"))
	assert.Equal(t, "root", resourceOf("/"))

	k1 := cacheKey("cache", httptest.NewRequest(http.MethodGet, "/rooms/R1", nil))
	k2 := cacheKey("cache", httptest.NewRequest(http.MethodGet, "/rooms/R2", nil))
	assert.NotEqual(t, k1, k2)
	assert.Regexp(t, `^cache:rooms:[0-9a-f]{40}$`, k1)
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[]`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `[]`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
}

func TestCacheAndRateLimit_PassThroughWhenOff(t *testing.T) {
	e := newEcho()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil, zap.NewNop()))
	e.Use(NewRedisCache(config.CacheConfig{Enabled: true}, nil, zap.NewNop()))
	e.GET("/rooms", func(c echo.Context) error { return c.JSON(http.StatusOK, []string{}) })

	rec := serve(e, http.MethodGet, "/rooms")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/rooms/R1", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/rooms/:codigo")

	cfg := config.RateLimitConfig{Prefix: "rl", RefillInterval: time.Second}
	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.1.2.3", rateKey(cfg, c))
	cfg.KeyStrategy = "route"
	assert.Equal(t, "rl:route:GET /rooms/:codigo", rateKey(cfg, c))
	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:10.1.2.3:route:GET /rooms/:codigo", rateKey(cfg, c))
}
