package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"toolnest/internal/config"
	"toolnest/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testSecret = "server-test-secret-0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Env:                "test",
		JWTSecret:          testSecret,
		JWTTTLHours:        1,
		AllowedOrigins:     "http://localhost:5173",
		RateLimitPerMinute: 1000,
	}
}

// newTestApp builds a server over a fresh sqlite database. rdb may be nil.
func newTestApp(t *testing.T, rdb *redis.Client) (*Server, *fiber.App) {
	t.Helper()
	srv, err := NewServerWithDeps(testConfig(), testutil.NewTestDB(t), rdb)
	require.NoError(t, err)
	return srv, srv.NewApp()
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

// registerAndLogin creates an account through the API and returns its token and id.
func registerAndLogin(t *testing.T, app *fiber.App, name, email string) (string, uint) {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": email, "password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, resp, &login)
	require.NotEmpty(t, login.Token)
	return login.Token, login.User.ID
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type toolBody struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    *struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"category"`
	UserID         uint `json:"user_id"`
	FavoritesCount int  `json:"favorites_count"`
}
