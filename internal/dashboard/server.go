// Package dashboard provides the real-time WebSocket surface for admin
// and staff dashboards.
//
// The server subscribes to the change-notifier hub and broadcasts each
// event to every connected client, so dashboards refresh aggregate
// counts without polling. A periodic stats broadcast acts as the
// backstop for clients that were offline when changes happened.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/voltdesk/voltdesk/internal/notify"
	"github.com/voltdesk/voltdesk/internal/store"
)

// StatsData is the periodic aggregate snapshot broadcast to clients.
type StatsData struct {
	Backend   string         `json:"backend"`
	Users     int            `json:"users"`
	Reports   int            `json:"reports"`
	Inventory int            `json:"inventory"`
	Toolbox   int            `json:"toolbox"`
	Tasks     int            `json:"tasks"`
	LoginLogs int            `json:"login_logs"`
	ByStatus  map[string]int `json:"reports_by_status,omitempty"`
}

// statsEvent is the wire shape of the periodic snapshot.
type statsEvent struct {
	Name      string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Data      StatsData `json:"data"`
}

// Config holds server configuration.
type Config struct {
	// Port to listen on (default: 8090). Port 0 picks a free port.
	Port int

	// StatsInterval is how often the aggregate snapshot is broadcast
	// (default: 30s).
	StatsInterval time.Duration

	// Logger for server activity (default: stderr logger).
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:          8090,
		StatsInterval: 30 * time.Second,
		Logger:        log.Default(),
	}
}

// Server manages WebSocket connections and relays notifier events.
type Server struct {
	addr     string
	listener net.Listener
	server   *http.Server

	hub *notify.Hub
	st  *store.Store

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan []byte

	statsInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewServer creates a dashboard server bridging the hub to WebSocket
// clients. The store is used only for diagnostic stats reads.
func NewServer(config *Config, hub *notify.Hub, st *store.Store) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.StatsInterval <= 0 {
		config.StatsInterval = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr:          fmt.Sprintf(":%d", config.Port),
		hub:           hub,
		st:            st,
		clients:       make(map[*websocket.Conn]bool),
		broadcast:     make(chan []byte, 100),
		statsInterval: config.StatsInterval,
		ctx:           ctx,
		cancel:        cancel,
		logger:        config.Logger,
	}
}

// Start begins the HTTP server, the hub relay and the stats backstop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.wg.Add(3)
	go s.broadcastLoop()
	go s.relayLoop()
	go s.statsLoop()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("Dashboard server listening on %s", s.addr)
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.logger.Println("Stopping dashboard server")

	s.cancel()

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close(websocket.StatusGoingAway, "Server shutting down")
		delete(s.clients, conn)
	}
	s.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.wg.Wait()

	s.logger.Println("Dashboard server stopped")
	return nil
}

// relayLoop forwards notifier events to the broadcast channel.
// Marshal failures are logged and dropped, never surfaced.
func (s *Server) relayLoop() {
	defer s.wg.Done()

	sub := s.hub.Subscribe(100)
	defer sub.Close()

	for {
		select {
		case <-s.ctx.Done():
			return

		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Printf("Failed to marshal event %s: %v", ev.Name, err)
				continue
			}
			s.send(data)
		}
	}
}

// statsLoop periodically broadcasts the aggregate snapshot. This is the
// polling backstop: a reconnecting dashboard converges within one
// interval even if it missed live events.
func (s *Server) statsLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			s.broadcastStats()
		}
	}
}

func (s *Server) broadcastStats() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	stats := statsEvent{
		Name:      "stats",
		Timestamp: time.Now(),
		Data: StatsData{
			Backend:   string(s.st.Type()),
			Users:     s.st.CountRows(ctx, "users"),
			Reports:   s.st.CountRows(ctx, "reports"),
			Inventory: s.st.CountRows(ctx, "inventory"),
			Toolbox:   s.st.CountRows(ctx, "toolbox"),
			Tasks:     s.st.CountRows(ctx, "tasks"),
			LoginLogs: s.st.CountRows(ctx, "login_logs"),
		},
	}

	data, err := json.Marshal(stats)
	if err != nil {
		s.logger.Printf("Failed to marshal stats: %v", err)
		return
	}
	s.send(data)
}

// send queues a payload for broadcast, dropping it when the channel is
// full rather than blocking callers.
func (s *Server) send(data []byte) {
	select {
	case s.broadcast <- data:
	case <-s.ctx.Done():
	default:
		s.logger.Println("Warning: broadcast channel full, dropping message")
	}
}

// broadcastLoop writes queued payloads to all connected clients.
func (s *Server) broadcastLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return

		case data := <-s.broadcast:
			s.clientsMu.RLock()
			clients := make([]*websocket.Conn, 0, len(s.clients))
			for conn := range s.clients {
				clients = append(clients, conn)
			}
			s.clientsMu.RUnlock()

			// Writes happen outside the read lock so a slow client
			// cannot stall connection management.
			for _, conn := range clients {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()

				if err != nil {
					s.logger.Printf("Failed to send to client: %v", err)
					s.removeClient(conn)
				}
			}
		}
	}
}

// handleWebSocket upgrades HTTP connections to WebSocket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	clientCount := len(s.clients)
	s.clientsMu.Unlock()

	s.logger.Printf("Client connected (total: %d)", clientCount)

	// Immediate snapshot so a fresh dashboard renders without waiting
	// for the next stats tick.
	s.broadcastStats()

	go s.readLoop(conn)
}

// readLoop keeps the connection alive and handles client disconnects.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.removeClient(conn)

	for {
		_, _, err := conn.Read(s.ctx)
		if err != nil {
			return
		}
		// Client messages are not processed; the channel is one-way.
	}
}

// removeClient safely removes a client connection.
func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	if _, exists := s.clients[conn]; exists {
		delete(s.clients, conn)
		clientCount := len(s.clients)
		s.clientsMu.Unlock()

		_ = conn.Close(websocket.StatusNormalClosure, "")
		s.logger.Printf("Client disconnected (total: %d)", clientCount)
	} else {
		s.clientsMu.Unlock()
	}
}

// handleHealth reports server status, the active backend and the
// connected client count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.clientsMu.RLock()
	clientCount := len(s.clients)
	s.clientsMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"backend": string(s.st.Type()),
		"clients": clientCount,
	})
}

// GetAddr returns the server's listening address.
func (s *Server) GetAddr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ClientCount returns the current number of connected clients.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
