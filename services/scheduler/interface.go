package scheduler

import (
	"context"
	"time"

	"meetsync/config"
	meetingRepo "meetsync/database/repository/meeting"
	"meetsync/knowledge"
	ai "meetsync/services/intelligence"
	"meetsync/services/notification"

	"meetsync/models"
)

// SchedulerService defines the interface for driving resumable scheduling
// conversations. One call to ProcessTurn handles exactly one human turn:
// it resumes the session's workflow with the reply, runs step handlers
// until the next suspension point or completion, and persists the state.
type SchedulerService interface {
	ProcessTurn(ctx context.Context, sessionID, userID, reply, interruptID string) (*models.TurnResult, error)
	CancelSession(ctx context.Context, sessionID string) error
	GetState(ctx context.Context, sessionID string) (*models.ConversationState, error)
}

// DefaultSchedulerService implements SchedulerService.
type DefaultSchedulerService struct {
	Oracle      ai.ReasoningOracle
	Knowledge   *knowledge.Base
	Checkpoints CheckpointStore
	Registry    *SessionRegistry
	Dispatcher  notification.InviteDispatcher
	Archive     meetingRepo.MeetingRepository // optional, nil disables archiving

	BusinessStart   int // hour, inclusive
	BusinessEnd     int // hour, exclusive
	DefaultDuration int // minutes

	now func() time.Time
}

func NewDefaultSchedulerService(
	oracle ai.ReasoningOracle,
	kb *knowledge.Base,
	checkpoints CheckpointStore,
	registry *SessionRegistry,
	dispatcher notification.InviteDispatcher,
	archive meetingRepo.MeetingRepository,
) *DefaultSchedulerService {
	svc := &DefaultSchedulerService{
		Oracle:          oracle,
		Knowledge:       kb,
		Checkpoints:     checkpoints,
		Registry:        registry,
		Dispatcher:      dispatcher,
		Archive:         archive,
		BusinessStart:   config.AppConfig.BusinessHoursStart,
		BusinessEnd:     config.AppConfig.BusinessHoursEnd,
		DefaultDuration: config.AppConfig.DefaultMeetingDuration,
		now:             time.Now,
	}
	if svc.BusinessStart == 0 && svc.BusinessEnd == 0 {
		svc.BusinessStart, svc.BusinessEnd = 8, 17
	}
	if svc.DefaultDuration == 0 {
		svc.DefaultDuration = 30
	}
	return svc
}

// Now returns the service clock, defaulting to wall time. Tests override
// the now field for deterministic slot computation.
func (s *DefaultSchedulerService) Now() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
