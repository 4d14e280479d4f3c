package scheduler

import (
	"context"
	"errors"
	"time"

	"meetsync/knowledge"
	"meetsync/models"
)

// fixedNow pins the test clock to a Tuesday morning.
var fixedNow = time.Date(2025, 8, 12, 9, 15, 0, 0, time.UTC)

// fakeOracle returns scripted responses in order, then an error.
type fakeOracle struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeOracle) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	out := f.responses[0]
	f.responses = f.responses[1:]
	return out, nil
}

// fakeDispatcher records the dispatched meeting and returns a canned result.
type fakeDispatcher struct {
	result *models.DispatchResult
	err    error
	sent   []*models.MeetingRecord
}

func (f *fakeDispatcher) SendInvites(ctx context.Context, rec *models.MeetingRecord) (*models.DispatchResult, error) {
	f.sent = append(f.sent, rec)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.DispatchResult{Status: "success", EventID: "evt-1", EmailsSent: true}, nil
}

func newTestService(oracle *fakeOracle, dispatcher *fakeDispatcher) *DefaultSchedulerService {
	if dispatcher == nil {
		dispatcher = &fakeDispatcher{}
	}
	var svc *DefaultSchedulerService
	if oracle == nil {
		svc = NewDefaultSchedulerService(nil, knowledge.Default(), NewMemoryCheckpointStore(), NewSessionRegistry(time.Hour), dispatcher, nil)
	} else {
		svc = NewDefaultSchedulerService(oracle, knowledge.Default(), NewMemoryCheckpointStore(), NewSessionRegistry(time.Hour), dispatcher, nil)
	}
	svc.now = func() time.Time { return fixedNow }
	return svc
}
