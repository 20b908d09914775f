package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/KirkDiggler/rollcall/internal/export"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/services/attendance"
)

// voiceEventRequest is the strict inbound event payload. Unknown event types
// and missing fields are rejected before they reach the engine.
type voiceEventRequest struct {
	Type        string    `json:"type"`
	User        string    `json:"user"`
	Channel     string    `json:"channel"`
	FromChannel string    `json:"fromChannel,omitempty"`
	Time        time.Time `json:"time,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (s *Server) handleVoiceEvent(w http.ResponseWriter, r *http.Request) {
	var req voiceEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	eventTime := req.Time
	if eventTime.IsZero() {
		// The relay does not stamp events; arrival time is close enough
		eventTime = s.clock.Now()
	}

	_, err := s.svc.ApplyEvent(r.Context(), &attendance.ApplyEventInput{
		Type:        models.EventType(req.Type),
		User:        req.User,
		Channel:     req.Channel,
		FromChannel: req.FromChannel,
		Time:        eventTime,
	})
	if err != nil {
		var engineErr attendance.EngineError
		if errors.As(err, &engineErr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: engineErr.Error()})
			return
		}
		log.Printf("Failed to apply voice event: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.GetSnapshot(r.Context(), &attendance.GetSnapshotInput{})
	if err != nil {
		log.Printf("Failed to read snapshot: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, out.Snapshot)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.GetLeaderboard(r.Context(), &attendance.GetLeaderboardInput{})
	if err != nil {
		log.Printf("Failed to read leaderboard: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, out.Entries)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.GetLeaderboard(r.Context(), &attendance.GetLeaderboardInput{})
	if err != nil {
		log.Printf("Failed to read leaderboard: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)
	if err := export.WriteCSV(w, out.Entries); err != nil {
		log.Printf("Failed to write CSV export: %v", err)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.GetLeaderboard(r.Context(), &attendance.GetLeaderboardInput{})
	if err != nil {
		log.Printf("Failed to read leaderboard: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.xlsx"`)
	if err := export.WriteXLSX(w, out.Entries); err != nil {
		log.Printf("Failed to write XLSX export: %v", err)
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}

	s.hub.Register(conn)

	// Drain inbound frames so pings are answered and closes are noticed
	go func() {
		defer s.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
