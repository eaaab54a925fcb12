package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	recordsRepo "bookingagent/database/repository/records"
	"bookingagent/handlers"
	"bookingagent/models"
	"bookingagent/services/agent"
	"bookingagent/services/calendar"
	"bookingagent/services/intelligence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	router  *gin.Engine
	store   *intelligence.MemoryContextStore
	records recordsRepo.BookingRecordRepository
}

func newServer(t *testing.T) *server {
	t.Helper()
	logger := zaptest.NewLogger(t)

	s := &server{
		store:   intelligence.NewMemoryContextStore(time.Hour),
		records: recordsRepo.NewMemoryRecordRepo(),
	}
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	engine := agent.New(s.store, intelligence.NewLocalGenerator(), calendar.NewMemoryCalendar(), agent.DefaultConfig(), logger,
		agent.WithClock(func() time.Time { return now }),
		agent.WithRecords(s.records),
	)

	hb := handlers.NewHandlerBundle(
		handlers.NewChatHandler(engine, s.store),
		handlers.NewBookingHandler(s.records),
		handlers.NewHealthHandler(nil),
	)
	s.router = gin.New()
	RegisterRoutes(s.router, hb)
	return s
}

func (s *server) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) chat(t *testing.T, session, message string) models.ChatResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/chat", gin.H{"sessionId": session, "message": message})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/chat %q: status %d: %s", message, w.Code, w.Body)
	}
	var res models.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	return res
}

func TestChatBookingFlow(t *testing.T) {
	s := newServer(t)

	if res := s.chat(t, "abc", "Schedule a demo tomorrow at 2pm"); res.State != models.StateCollectingInfo || len(res.SuggestedSlots) == 0 {
		t.Fatalf("got state %s with %d slots, want COLLECTING_INFO with suggestions", res.State, len(res.SuggestedSlots))
	}
	if res := s.chat(t, "abc", "the first one"); res.State != models.StateConfirmingBooking || res.SelectedSlot == nil {
		t.Fatalf("got state %s, selected %v, want CONFIRMING_BOOKING with a slot", res.State, res.SelectedSlot)
	}
	res := s.chat(t, "abc", "yes")
	if res.State != models.StateCompleted || res.SessionID != "abc" {
		t.Fatalf("got %+v, want COMPLETED for abc", res)
	}

	w := s.do(t, http.MethodGet, "/api/bookings?sessionId=abc", nil)
	var list struct {
		Bookings []models.BookingRecord `json:"bookings"`
		Count    int                    `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Bookings[0].Title != "Demo" {
		t.Fatalf("bookings = %+v", list)
	}

	w = s.do(t, http.MethodGet, "/api/bookings/"+list.Bookings[0].ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET booking: status %d", w.Code)
	}
}

func TestChatValidation(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing message", gin.H{"sessionId": "x"}},
		{"blank message", gin.H{"sessionId": "x", "message": "   "}},
		{"not json", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(t, http.MethodPost, "/api/chat", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestDefaultSession(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/chat", gin.H{"message": "hello"})
	var res models.ChatResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.SessionID != "default" {
		t.Errorf("sessionId = %q, want default", res.SessionID)
	}
}

func TestSessionEndpoints(t *testing.T) {
	s := newServer(t)
	s.chat(t, "one", "hello")
	s.chat(t, "two", "hello")

	w := s.do(t, http.MethodGet, "/api/sessions", nil)
	var list struct {
		Sessions []string `json:"sessions"`
		Count    int      `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if list.Count != 2 {
		t.Errorf("count = %d, want 2", list.Count)
	}

	if w := s.do(t, http.MethodGet, "/api/sessions/one", nil); w.Code != http.StatusOK {
		t.Errorf("GET session: status %d", w.Code)
	}
	if w := s.do(t, http.MethodDelete, "/api/sessions/one", nil); w.Code != http.StatusOK {
		t.Errorf("DELETE session: status %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/sessions/one", nil); w.Code != http.StatusNotFound {
		t.Errorf("GET cleared session: status %d, want 404", w.Code)
	}
	if w := s.do(t, http.MethodDelete, "/api/sessions/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("DELETE missing session: status %d, want 404", w.Code)
	}
}

func TestBookingEndpointsErrors(t *testing.T) {
	s := newServer(t)

	if w := s.do(t, http.MethodGet, "/api/bookings/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("GET unknown booking: status %d, want 404", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/bookings?limit=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status %d, want 400", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	if w := s.do(t, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("GET /health: status %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/", nil); w.Code != http.StatusOK {
		t.Errorf("GET /: status %d", w.Code)
	}
}
