package server

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/handbits/internal/connid"
	"github.com/lox/handbits/poker"
)

// Server exposes the classifier over WebSocket
type Server struct {
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	clock       quartz.Clock
	mux         *http.ServeMux
	httpServer  *http.Server

	writeTimeout time.Duration

	mu   sync.Mutex // guards connections
	deal sync.Mutex // guards deck and rng
	deck *poker.Deck
	rng  *rand.Rand
}

// Option configures a Server
type Option func(*Server)

// WithWriteTimeout bounds each websocket write
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

// NewServer creates a new WebSocket server. rng drives the deal requests and
// is only ever used under the server's lock.
func NewServer(logger *log.Logger, clock quartz.Clock, rng *rand.Rand, opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			// The service is read-only; any origin may use it
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
		clock:       clock,
		deck:        poker.NewDeck(rng),
		rng:         rng,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/health", s.handleHealth)
	return s
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", addr)
	return srv.ListenAndServe()
}

// Shutdown stops accepting requests and closes every client
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// DealHand deals five cards from the shared deck
func (s *Server) DealHand() []poker.Card {
	s.deal.Lock()
	defer s.deal.Unlock()
	// Every deal comes from a fresh shuffle
	s.deck.Shuffle()
	return s.deck.DealHand()
}

// ConnectionCount returns the number of connected clients
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// ConnectionIDs returns the IDs of connected clients, oldest first
func (s *Server) ConnectionIDs() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.connections))
	for conn := range s.connections {
		ids = append(ids, conn.ID())
	}
	s.mu.Unlock()
	slices.Sort(ids)
	return ids
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	s.deal.Lock()
	id := connid.New(s.clock.Now(), s.rng)
	s.deal.Unlock()

	client := NewConnection(id, conn, s.logger, s.clock, s, s.writeTimeout)

	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "conn", id, "remote", r.RemoteAddr, "total", total)

	client.Start()

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "conn", client.ID(), "total", total)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
