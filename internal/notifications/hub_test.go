package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_ConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < MaxConnsPerUser; i++ {
		_, err := hub.Register(10, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(10, nil)
	assert.ErrorIs(t, err, ErrConnectionLimit)

	_, err = hub.Register(11, nil)
	assert.NoError(t, err, "limit is per user")
	assert.Equal(t, MaxConnsPerUser, hub.ConnectionCount(10))

	_ = hub.Shutdown(context.Background())
}

func TestHub_BroadcastOnlyReachesUser(t *testing.T) {
	hub := NewHub()
	a1, err := hub.Register(1, nil)
	require.NoError(t, err)
	a2, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(2, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, hub.Broadcast(1, []byte("hello")))
	assert.Equal(t, "hello", string(<-a1.Send))
	assert.Equal(t, "hello", string(<-a2.Send))
	assert.Empty(t, b.Send)

	assert.Equal(t, 0, hub.Broadcast(3, []byte("nobody")))
}

func TestHub_UnregisterClosesQueueOnce(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(5, nil)
	require.NoError(t, err)

	hub.UnregisterClient(c)
	hub.UnregisterClient(c)

	_, open := <-c.Send
	assert.False(t, open)
	assert.Zero(t, hub.ConnectionCount(5))
	assert.False(t, c.TrySend([]byte("late")), "sending to a closed client must not panic")
}

func TestHub_ShutdownRejectsNewClients(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(5, nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	require.NoError(t, hub.Shutdown(context.Background()))

	_, open := <-c.Send
	assert.False(t, open)

	_, err = hub.Register(5, nil)
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(5, nil)
	require.NoError(t, err)

	for i := 0; i < sendBuffer; i++ {
		require.True(t, c.TrySend([]byte("x")))
	}
	assert.False(t, c.TrySend([]byte("overflow")))
}

func TestUserIDFromChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		channel string
		id      uint
		ok      bool
	}{
		{"notifications:user:42", 42, true},
		{"notifications:user:0", 0, false},
		{"notifications:user:abc", 0, false},
		{"chat:conv:1", 0, false},
	}
	for _, tt := range tests {
		id, ok := userIDFromChannel(tt.channel)
		assert.Equal(t, tt.ok, ok, tt.channel)
		assert.Equal(t, tt.id, id, tt.channel)
	}
}

func TestHub_StartWiringForwardsPublishedEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	notifier := NewNotifier(rdb)
	require.NoError(t, hub.StartWiring(ctx, notifier))

	owner, err := hub.Register(7, nil)
	require.NoError(t, err)
	other, err := hub.Register(8, nil)
	require.NoError(t, err)

	require.NoError(t, notifier.Publish(context.Background(), 7, EventToolFavorited, map[string]uint{"tool_id": 3}))

	var raw []byte
	require.Eventually(t, func() bool {
		select {
		case raw = <-owner.Send:
			return true
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)

	var event struct {
		Type    string          `json:"type"`
		Payload map[string]uint `json:"payload"`
		TS      int64           `json:"ts"`
	}
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, EventToolFavorited, event.Type)
	assert.Equal(t, uint(3), event.Payload["tool_id"])
	assert.NotZero(t, event.TS)

	assert.Never(t, func() bool { return len(other.Send) > 0 }, 10*testPollInterval, testPollInterval)
	_ = hub.Shutdown(context.Background())
}
