package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"toolnest/internal/config"
	"toolnest/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerWithDeps_RequiresDatabase(t *testing.T) {
	_, err := NewServerWithDeps(&config.Config{}, nil, nil)
	assert.Error(t, err)
}

func TestNewServerWithDeps_RealtimeNeedsRedis(t *testing.T) {
	srv, err := NewServerWithDeps(testConfig(), testutil.NewTestDB(t), nil)
	require.NoError(t, err)
	assert.Nil(t, srv.notifier)
	assert.Nil(t, srv.hub)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	srv, err = NewServerWithDeps(testConfig(), testutil.NewTestDB(t), rdb)
	require.NoError(t, err)
	assert.NotNil(t, srv.notifier)
	assert.NotNil(t, srv.hub)
}

func TestHealthChecks(t *testing.T) {
	_, app := newTestApp(t, nil)

	resp := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var live map[string]any
	decodeBody(t, resp, &live)
	assert.Equal(t, "up", live["status"])

	resp = doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ready struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decodeBody(t, resp, &ready)
	assert.Equal(t, "healthy", ready.Status)
	assert.Equal(t, "healthy", ready.Checks["database"])
	assert.Equal(t, "unavailable", ready.Checks["redis"])
}

func TestReadinessCheck_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	_, app := newTestApp(t, rdb)
	mr.Close()

	resp := doRequest(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	_, app := newTestApp(t, nil)

	resp := doRequest(t, app, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var body errorBody
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Error)
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	_, app := newTestApp(t, nil)
	token, _ := registerAndLogin(t, app, "Ada", "ada@example.com")

	resp := doRequest(t, app, http.MethodGet, "/api/ws", token, nil)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/ws", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSetupMiddleware_RateLimitedResponseIncludesCORSHeaders(t *testing.T) {
	srv := &Server{
		config: &config.Config{
			AllowedOrigins:     "http://localhost:5173",
			RateLimitPerMinute: 3,
		},
	}

	app := fiber.New()
	srv.SetupMiddleware(app)
	app.Get("/limited", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/limited", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	preflightResp, err := app.Test(preflight, -1)
	require.NoError(t, err)
	defer func() { _ = preflightResp.Body.Close() }()
	assert.Equal(t, fiber.StatusNoContent, preflightResp.StatusCode)
}

func TestSetupMiddleware_SetsRequestAndTraceIDs(t *testing.T) {
	srv := &Server{config: &config.Config{}}

	app := fiber.New()
	srv.SetupMiddleware(app)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestParseID(t *testing.T) {
	srv := &Server{}
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := srv.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		path   string
		status int
	}{
		{"/items/7", fiber.StatusOK},
		{"/items/0", fiber.StatusBadRequest},
		{"/items/-2", fiber.StatusBadRequest},
		{"/items/seven", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
