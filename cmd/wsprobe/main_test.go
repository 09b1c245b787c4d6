package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if r.URL.Path != "/api/auth/login" || creds["password"] != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	}))
	defer srv.Close()

	token, err := login(srv.URL, "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	_, err = login(srv.URL, "ada@example.com", "wrong")
	assert.ErrorContains(t, err, "401")
}

func TestWatch_DeliversEventsAndStopsOnClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"tool_favorited","payload":{"tool_id":3},"ts":1}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	var events []event
	err := watch(ctx, wsURL, "tok", func(e event) { events = append(events, e) })
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "tool_favorited", events[0].Type)
	assert.JSONEq(t, `{"tool_id":3}`, string(events[0].Payload))
}

func TestWatch_RejectedHandshake(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := watch(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), "bad", func(event) {})
	assert.ErrorContains(t, err, "dial")
}
