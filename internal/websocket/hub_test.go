package websocket

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func setupTestHub(t *testing.T) *Hub {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	hub := NewHub(logger)
	go hub.Run()
	return hub
}

func connectWS(t *testing.T, hub *Hub, topic string) (*websocket.Conn, func()) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?topic=" + topic

	dialer := websocket.Dialer{}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect WebSocket: %v", err)
	}

	cleanup := func() {
		conn.Close()
		server.Close()
	}

	return conn, cleanup
}

func TestHub_ClientConnects(t *testing.T) {
	hub := setupTestHub(t)

	conn, cleanup := connectWS(t, hub, "design-team")
	defer cleanup()

	// Give the hub time to register the client
	time.Sleep(50 * time.Millisecond)

	if count := hub.ClientCount(); count != 1 {
		t.Errorf("expected 1 client, got %d", count)
	}

	conn.Close()
	time.Sleep(50 * time.Millisecond)

	if count := hub.ClientCount(); count != 0 {
		t.Errorf("expected 0 clients after disconnect, got %d", count)
	}
}

func TestHub_RejectsMissingTopic(t *testing.T) {
	hub := setupTestHub(t)

	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without a topic, got %d", resp.StatusCode)
	}
}

func TestHub_PublishReachesTopic(t *testing.T) {
	hub := setupTestHub(t)

	conn, cleanup := connectWS(t, hub, "design-team")
	defer cleanup()

	time.Sleep(50 * time.Millisecond)

	if err := hub.Publish("design-team", map[string]string{"id": "n-123", "title": "Component updated"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	if !strings.Contains(string(message), "n-123") {
		t.Errorf("expected message to contain notification id, got: %s", message)
	}
}

func TestHub_PublishDoesNotCrossTopics(t *testing.T) {
	hub := setupTestHub(t)

	connA, cleanupA := connectWS(t, hub, "team-a")
	defer cleanupA()
	connB, cleanupB := connectWS(t, hub, "team-b")
	defer cleanupB()

	time.Sleep(50 * time.Millisecond)

	if err := hub.Publish("team-a", map[string]string{"id": "n-a"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := connA.ReadMessage()
	if err != nil {
		t.Fatalf("team-a client failed to read: %v", err)
	}
	if !strings.Contains(string(message), "n-a") {
		t.Errorf("team-a client should receive its message, got: %s", message)
	}

	connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := connB.ReadMessage(); err == nil {
		t.Error("team-b client should not receive team-a messages")
	}
}

func TestHub_ClientCountStartsAtZero(t *testing.T) {
	hub := setupTestHub(t)

	if count := hub.ClientCount(); count != 0 {
		t.Errorf("expected 0 clients initially, got %d", count)
	}
}
