// Package web exposes the attendance engine over HTTP: the voice-event
// ingest endpoint, snapshot and leaderboard reads, downloads, and the
// websocket feed for live dashboards.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/rollcall/internal/broadcast"
	"github.com/KirkDiggler/rollcall/internal/common/clock"
	"github.com/KirkDiggler/rollcall/internal/services/attendance"
)

// Config holds the configuration for the web server
type Config struct {
	// Addr is the listen address, e.g. ":3000"
	Addr string

	// AttendanceService is the engine events are applied to
	AttendanceService attendance.Service

	// Hub receives websocket connections for the live feed
	Hub *broadcast.Hub

	// Clock stamps events that arrive without a timestamp
	Clock clock.Clock
}

// Server serves the attendance HTTP API
type Server struct {
	addr       string
	svc        attendance.Service
	hub        *broadcast.Hub
	clock      clock.Clock
	upgrader   websocket.Upgrader
	httpServer *http.Server
}

// New creates a new web server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.AttendanceService == nil {
		return nil, errors.New("attendance service cannot be nil")
	}

	if cfg.Hub == nil {
		return nil, errors.New("broadcast hub cannot be nil")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	addr := cfg.Addr
	if addr == "" {
		addr = ":3000"
	}

	s := &Server{
		addr:  addr,
		svc:   cfg.AttendanceService,
		hub:   cfg.Hub,
		clock: clk,
		upgrader: websocket.Upgrader{
			// The dashboard is served from arbitrary origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	return s, nil
}

// Router builds the HTTP route table
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/voice-event", s.handleVoiceEvent).Methods(http.MethodPost)
	r.HandleFunc("/attendance", s.handleAttendance).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/export.csv", s.handleExportCSV).Methods(http.MethodGet)
	r.HandleFunc("/export.xlsx", s.handleExportXLSX).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebsocket).Methods(http.MethodGet)

	return r
}

// Start begins serving in the background
func (s *Server) Start() {
	go func() {
		log.Printf("Web server listening on %s", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Web server stopped: %v", err)
		}
	}()
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}
