package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meetsync/models"
	"meetsync/services/scheduler"

	"github.com/gin-gonic/gin"
)

type stubScheduler struct {
	result *models.TurnResult
	err    error
	state  *models.ConversationState

	gotSessionID string
	gotReply     string
}

func (s *stubScheduler) ProcessTurn(ctx context.Context, sessionID, userID, reply, interruptID string) (*models.TurnResult, error) {
	s.gotSessionID = sessionID
	s.gotReply = reply
	if s.err != nil {
		return nil, s.err
	}
	res := *s.result
	res.SessionID = sessionID
	return &res, nil
}

func (s *stubScheduler) CancelSession(ctx context.Context, sessionID string) error {
	return s.err
}

func (s *stubScheduler) GetState(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	if s.state == nil {
		return nil, scheduler.ErrCheckpointNotFound
	}
	return s.state, nil
}

func postChat(t *testing.T, svc scheduler.SchedulerService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/chat", ChatHandler(svc))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatHandlerStartsSessionAndJoinsMessages(t *testing.T) {
	svc := &stubScheduler{result: &models.TurnResult{
		Messages: []models.Message{
			{Speaker: models.SpeakerUser, Text: "meet with John"},
			{Speaker: models.SpeakerSystem, Text: "I'll coordinate schedules for John."},
			{Speaker: models.SpeakerSystem, Text: "Which time works for you?"},
		},
		Interrupt: &models.InterruptRequest{ID: "int-1", Prompt: "Which time works for you?"},
	}}

	w := postChat(t, svc, `{"question":"meet with John"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("handler did not mint a session id")
	}
	if resp.SessionID != svc.gotSessionID {
		t.Fatalf("response session %q != processed session %q", resp.SessionID, svc.gotSessionID)
	}
	if strings.Contains(resp.Response, "meet with John") {
		t.Fatalf("user's own words echoed back: %q", resp.Response)
	}
	if !strings.Contains(resp.Response, "coordinate schedules") || !strings.Contains(resp.Response, "Which time") {
		t.Fatalf("system messages not joined: %q", resp.Response)
	}
	if resp.Interrupt == nil || resp.Interrupt.ID != "int-1" {
		t.Fatalf("interrupt = %+v", resp.Interrupt)
	}
}

func TestChatHandlerRejectsMissingQuestion(t *testing.T) {
	svc := &stubScheduler{result: &models.TurnResult{}}
	w := postChat(t, svc, `{"sessionId":"s1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestChatHandlerMapsSchedulerErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{scheduler.ErrCheckpointNotFound, http.StatusNotFound},
		{scheduler.ErrSessionTerminal, http.StatusConflict},
		{scheduler.ErrStaleInterrupt, http.StatusConflict},
	}
	for _, tt := range tests {
		svc := &stubScheduler{err: tt.err}
		w := postChat(t, svc, `{"question":"hello","sessionId":"s1"}`)
		if w.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.status)
		}
	}
}

func TestGetSessionHandlerUnknownSessionIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/sessions/:sessionID", GetSessionHandler(&stubScheduler{}))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
