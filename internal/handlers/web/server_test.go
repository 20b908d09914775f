package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rollcall/internal/broadcast"
	"github.com/KirkDiggler/rollcall/internal/models"
	snapshotMocks "github.com/KirkDiggler/rollcall/internal/repositories/snapshot/mocks"
	"github.com/KirkDiggler/rollcall/internal/services/attendance"
)

type WebServerTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockRepo   *snapshotMocks.MockRepository
	hub        *broadcast.Hub
	testServer *httptest.Server
	testTime   time.Time
}

func (s *WebServerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = snapshotMocks.NewMockRepository(s.mockCtrl)
	s.mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.hub = broadcast.NewHub()
	s.testTime = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	engine, err := attendance.New(&attendance.Config{
		SnapshotRepo: s.mockRepo,
		Broadcaster:  s.hub,
	})
	s.Require().NoError(err)

	server, err := New(&Config{
		AttendanceService: engine,
		Hub:               s.hub,
	})
	s.Require().NoError(err)

	s.testServer = httptest.NewServer(server.Router())
}

func (s *WebServerTestSuite) TearDownTest() {
	s.testServer.Close()
}

func TestWebServerTestSuite(t *testing.T) {
	suite.Run(t, new(WebServerTestSuite))
}

func (s *WebServerTestSuite) postEvent(body string) *http.Response {
	resp, err := http.Post(s.testServer.URL+"/voice-event", "application/json", strings.NewReader(body))
	s.Require().NoError(err)
	return resp
}

func (s *WebServerTestSuite) eventBody(eventType, user, channel string, at time.Time) string {
	return fmt.Sprintf(`{"type":%q,"user":%q,"channel":%q,"time":%q}`,
		eventType, user, channel, at.Format(time.RFC3339))
}

func (s *WebServerTestSuite) TestVoiceEventRoundTrip() {
	resp := s.postEvent(s.eventBody("join", "Aria", "Lobby", s.testTime))
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.postEvent(s.eventBody("leave", "Aria", "Lobby", s.testTime.Add(300*time.Second)))
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, err := http.Get(s.testServer.URL + "/attendance")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var snap models.Snapshot
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&snap))
	s.Equal(int64(300), snap.Totals["Aria"])
	s.NotContains(snap.Active, "Aria")
	s.Require().NotEmpty(snap.History)
	s.Equal(models.EventTypeLeave, snap.History[0].Type)
}

func (s *WebServerTestSuite) TestVoiceEventWithoutTimeIsStamped() {
	resp := s.postEvent(`{"type":"join","user":"Aria","channel":"Lobby"}`)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, err := http.Get(s.testServer.URL + "/attendance")
	s.Require().NoError(err)
	defer resp.Body.Close()

	var snap models.Snapshot
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&snap))
	s.Require().Contains(snap.Active, "Aria")
	s.WithinDuration(time.Now(), snap.Active["Aria"].JoinedAt, time.Minute)
}

func (s *WebServerTestSuite) TestMalformedEventRejected() {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid JSON", body: "{not json"},
		{name: "missing user", body: `{"type":"join","channel":"Lobby"}`},
		{name: "missing channel", body: `{"type":"join","user":"Aria"}`},
		{name: "unknown type", body: `{"type":"teleport","user":"Aria","channel":"Lobby"}`},
	}

	for _, tt := range tests {
		resp := s.postEvent(tt.body)
		resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode, tt.name)
	}
}

func (s *WebServerTestSuite) TestLeaderboard() {
	resp := s.postEvent(s.eventBody("join", "Aria", "Lobby", s.testTime))
	resp.Body.Close()
	resp = s.postEvent(s.eventBody("leave", "Aria", "Lobby", s.testTime.Add(3661*time.Second)))
	resp.Body.Close()

	resp, err := http.Get(s.testServer.URL + "/leaderboard")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var entries []*models.LeaderboardEntry
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&entries))
	s.Require().Len(entries, 1)
	s.Equal("Aria", entries[0].User)
	s.Equal("01:01:01", entries[0].Formatted)
}

func (s *WebServerTestSuite) TestExportCSV() {
	resp := s.postEvent(s.eventBody("join", "Aria", "Lobby", s.testTime))
	resp.Body.Close()
	resp = s.postEvent(s.eventBody("leave", "Aria", "Lobby", s.testTime.Add(300*time.Second)))
	resp.Body.Close()

	resp, err := http.Get(s.testServer.URL + "/export.csv")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("text/csv", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal("User,Total Time\nAria,00:05:00\n", string(body))
}

func (s *WebServerTestSuite) TestWebsocketReceivesUpdates() {
	wsURL := "ws" + strings.TrimPrefix(s.testServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().Eventually(func() bool {
		return s.hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp := s.postEvent(s.eventBody("join", "Aria", "Lobby", s.testTime))
	resp.Body.Close()

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, payload, err := conn.ReadMessage()
	s.Require().NoError(err)

	var snap models.Snapshot
	s.Require().NoError(json.Unmarshal(payload, &snap))
	s.Contains(snap.Active, "Aria")
}
