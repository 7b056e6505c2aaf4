package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/voltdesk/voltdesk/internal/notify"
	"github.com/voltdesk/voltdesk/internal/store"
)

func newTestServer(t *testing.T) (*Server, *notify.Hub) {
	t.Helper()

	logger := log.New(os.Stderr, "[test] ", log.LstdFlags)

	st, err := store.Open(store.Config{
		Backend: "sqlite",
		Path:    filepath.Join(t.TempDir(), "test.db"),
	}, logger)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}

	hub := notify.NewHub(logger)
	t.Cleanup(hub.Close)

	config := &Config{
		Port:          0, // random available port
		StatsInterval: time.Hour,
		Logger:        logger,
	}
	return NewServer(config, hub, st), hub
}

func TestServerStartStop(t *testing.T) {
	server, _ := newTestServer(t)

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	addr := server.GetAddr()
	if addr == "" {
		t.Fatal("Server address is empty")
	}

	if err := server.Stop(); err != nil {
		t.Fatalf("Failed to stop server: %v", err)
	}
}

func TestWebSocketConnectionGetsSnapshot(t *testing.T) {
	server, _ := newTestServer(t)

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer server.Stop()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws://" + server.GetAddr() + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect WebSocket: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	if count := server.ClientCount(); count != 1 {
		t.Errorf("Expected 1 client, got %d", count)
	}

	// A fresh connection receives the stats snapshot immediately.
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}

	var msg statsEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}
	if msg.Name != "stats" {
		t.Errorf("Expected stats event, got %s", msg.Name)
	}
	if msg.Data.Backend != "sqlite" {
		t.Errorf("Expected sqlite backend, got %s", msg.Data.Backend)
	}
}

func TestHubEventsReachClients(t *testing.T) {
	server, hub := newTestServer(t)

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer server.Stop()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws://" + server.GetAddr() + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect WebSocket: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Drain the connect snapshot first.
	if _, _, err := conn.Read(ctx); err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}

	hub.Emit(notify.EntityReport, notify.ActionCreated, 7, 3, map[string]any{"status": "Pending"})

	// The base event and its admin twin both arrive.
	var names []string
	for i := 0; i < 2; i++ {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("Failed to read event %d: %v", i, err)
		}
		var ev notify.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("Failed to unmarshal event: %v", err)
		}
		if ev.EntityID != 7 || ev.OwnerID != 3 {
			t.Errorf("Event ids = (%d, %d)", ev.EntityID, ev.OwnerID)
		}
		names = append(names, ev.Name)
	}

	if names[0] != "report:created" || names[1] != "admin:report:created" {
		t.Errorf("Event names = %v", names)
	}
}

func TestMultipleClients(t *testing.T) {
	server, hub := newTestServer(t)

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer server.Stop()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws://" + server.GetAddr() + "/ws"

	numClients := 3
	clients := make([]*websocket.Conn, numClients)
	for i := 0; i < numClients; i++ {
		conn, _, err := websocket.Dial(ctx, wsURL, nil)
		if err != nil {
			t.Fatalf("Failed to connect client %d: %v", i, err)
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		clients[i] = conn

		// Drain the connect snapshot.
		if _, _, err := conn.Read(ctx); err != nil {
			t.Fatalf("Failed to read snapshot for client %d: %v", i, err)
		}
	}

	if count := server.ClientCount(); count != numClients {
		t.Errorf("Expected %d clients, got %d", numClients, count)
	}

	hub.Emit(notify.EntityTask, notify.ActionUpdated, 1, 1, nil)

	// Every client sees the broadcast. Each connect also triggered a
	// stats broadcast to everyone, so skip those frames.
	for i, conn := range clients {
		if name := readUntilNonStats(ctx, t, conn); name != "task:updated" {
			t.Errorf("Client %d got event %s", i, name)
		}
	}
}

func readUntilNonStats(ctx context.Context, t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("Failed to read event: %v", err)
		}
		var ev notify.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("Failed to unmarshal event: %v", err)
		}
		if ev.Name != "stats" {
			return ev.Name
		}
	}
}

func TestClientDisconnect(t *testing.T) {
	server, _ := newTestServer(t)

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer server.Stop()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws://" + server.GetAddr() + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect WebSocket: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if count := server.ClientCount(); count != 1 {
		t.Fatalf("Expected 1 client, got %d", count)
	}

	conn.Close(websocket.StatusNormalClosure, "done")

	// The server notices the disconnect via its read loop.
	deadline := time.Now().Add(2 * time.Second)
	for server.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if count := server.ClientCount(); count != 0 {
		t.Errorf("Expected 0 clients after disconnect, got %d", count)
	}
}
