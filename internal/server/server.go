// ABOUTME: HTTP server for the STS bridge
// ABOUTME: Owns routing, WebSocket sessions, mDNS advertisement and the TUI lifecycle
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/harperreed/sts-bridge/internal/bridge"
	"github.com/harperreed/sts-bridge/internal/discovery"
)

// Processor runs the speech-to-speech pipeline for one upload
type Processor interface {
	Process(ctx context.Context, body []byte) (*bridge.Result, error)
}

// Config holds server configuration
type Config struct {
	Host            string
	Port            int
	Name            string
	Model           string // Shown in the TUI and mDNS TXT records
	MaxUploadBytes  int64
	EnableMDNS      bool
	EnableWebSocket bool
	UseTUI          bool
	Debug           bool
}

// Server is the bridge HTTP server
type Server struct {
	config    Config
	serverID  string
	processor Processor

	// WebSocket upgrader
	upgrader websocket.Upgrader

	// HTTP server
	httpServer *http.Server
	mux        *http.ServeMux

	// Open WebSocket sessions, closed on shutdown
	sessions   map[*websocket.Conn]struct{}
	sessionsMu sync.Mutex
	isShutdown bool

	stats *Stats

	// mDNS discovery
	mdnsManager *discovery.Manager

	// TUI
	tui       *ServerTUI
	startTime time.Time

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new server instance. Routes are registered immediately so
// Handler can be used without Start.
func New(config Config, processor Processor) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		config:    config,
		serverID:  uuid.New().String(),
		processor: processor,
		mux:       http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin != "" {
					log.Printf("Warning: accepting WebSocket from origin: %s", origin)
				}
				return true
			},
		},
		sessions:  make(map[*websocket.Conn]struct{}),
		stats:     &Stats{},
		startTime: time.Now(),
		stopChan:  make(chan struct{}),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.config.EnableWebSocket {
		s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Stats returns the request counters
func (s *Server) Stats() *Stats {
	return s.stats
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Start serves until Stop is called, the TUI quits or the listener fails
func (s *Server) Start() error {
	// Start TUI if enabled
	if s.config.UseTUI {
		s.tui = NewServerTUI(s.status())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.tui.Start(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.tuiLoop()
		}()
	}

	log.Printf("Server starting: %s (ID: %s)", s.config.Name, s.serverID)

	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		if s.tui != nil {
			s.tui.Stop()
		}
		s.Stop()
		s.wg.Wait()
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	log.Printf("HTTP server listening on %s", listener.Addr())

	// Start mDNS advertisement if enabled
	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        listener.Addr().(*net.TCPAddr).Port,
			TXT:         []string{"id=" + s.serverID, "model=" + s.config.Model},
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for stop signal, TUI quit, or server error
	var serverErr error
	var tuiQuitChan <-chan struct{}
	if s.tui != nil {
		tuiQuitChan = s.tui.QuitChan()
	}

	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case <-tuiQuitChan:
		log.Printf("TUI quit requested, shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	// Unblocks tuiLoop when shutdown was not triggered by Stop
	s.Stop()

	if s.tui != nil {
		s.tui.Stop()
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Hijacked WebSocket connections are not closed by Shutdown
	s.closeSessions()

	s.wg.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// addSession registers a WebSocket session; false means the server is shutting down
func (s *Server) addSession(conn *websocket.Conn) bool {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	if s.isShutdown {
		return false
	}
	s.sessions[conn] = struct{}{}
	return true
}

func (s *Server) removeSession(conn *websocket.Conn) {
	s.sessionsMu.Lock()
	delete(s.sessions, conn)
	s.sessionsMu.Unlock()
}

func (s *Server) closeSessions() {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	s.isShutdown = true
	for conn := range s.sessions {
		conn.Close()
	}
}
