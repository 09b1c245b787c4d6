// Command wsprobe logs in, opens one or more notification sockets and prints
// every event it receives. Useful to watch favorite notifications live.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// event mirrors the notification envelope.
type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	TS      int64           `json:"ts"`
}

var received atomic.Int64

func main() {
	host := flag.String("host", "localhost:8080", "API server host")
	email := flag.String("email", "", "User email")
	password := flag.String("password", "password123", "User password")
	clients := flag.Int("clients", 1, "Number of concurrent sockets")
	duration := flag.Duration("duration", 0, "Stop after this long (0 waits for Ctrl-C)")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	token, err := login(fmt.Sprintf("http://%s", *host), *email, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Printf("Logged in as %s", *email)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	u := url.URL{Scheme: "ws", Host: *host, Path: "/api/ws"}
	var wg sync.WaitGroup
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			err := watch(ctx, u.String(), token, func(e event) {
				received.Add(1)
				log.Printf("[socket %d] %s %s", id, e.Type, e.Payload)
			})
			if err != nil {
				log.Printf("[socket %d] %v", id, err)
			}
		}(i)
	}

	wg.Wait()
	log.Printf("Received %d events", received.Load())
}

func login(baseURL, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(baseURL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}

// watch dials wsURL and calls onEvent for every message until ctx ends or the
// server hangs up. A clean close is not an error.
func watch(ctx context.Context, wsURL, token string, onEvent func(event)) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		var e event
		if err := json.Unmarshal(data, &e); err != nil {
			log.Printf("unexpected message: %s", data)
			continue
		}
		onEvent(e)
	}
}
