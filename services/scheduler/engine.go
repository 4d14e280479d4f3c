package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meetsync/models"
	"meetsync/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxStepIterations bounds how many handlers may run within one turn before
// the engine forces a suspension. A healthy turn crosses at most three steps
// (parse -> availability -> details); hitting the bound means a handler is
// cycling without asking for input.
const maxStepIterations = 8

// genericFollowUp is the recovery prompt emitted when a step handler fails
// in an unexpected way. The session stays at the same step so the next reply
// re-enters the handler cleanly.
const genericFollowUp = "I need more information to continue. Could you clarify your request?"

// stepHandler runs one workflow step against the loaded state. A non-nil
// input carries the human reply being consumed this turn; handlers invoked
// later in the same turn receive nil and must work from state alone. A
// returned InterruptRequest suspends the session at the current step.
type stepHandler func(ctx context.Context, st *models.ConversationState, input *string) (*models.InterruptRequest, error)

// route maps a step tag to the step whose handler should run. Unknown or
// empty tags deterministically fall back to parse_request.
func route(step models.Step) models.Step {
	switch step {
	case models.StepParseRequest,
		models.StepCheckAvailability,
		models.StepHumanMeetingDetails,
		models.StepSendInvites,
		models.StepComplete:
		return step
	default:
		return models.StepParseRequest
	}
}

func (s *DefaultSchedulerService) handlerFor(step models.Step) stepHandler {
	switch route(step) {
	case models.StepCheckAvailability:
		return s.stepCheckAvailability
	case models.StepHumanMeetingDetails:
		return s.stepMeetingDetails
	case models.StepSendInvites:
		return s.stepSendInvites
	default:
		return s.stepParseRequest
	}
}

// ProcessTurn resumes the session with one human reply, runs step handlers
// until the workflow suspends or completes, and persists the resulting
// state. A retried resume carrying the same interrupt id and reply returns
// the previously computed result without mutating state again.
func (s *DefaultSchedulerService) ProcessTurn(ctx context.Context, sessionID, userID, reply, interruptID string) (*models.TurnResult, error) {
	release := s.Registry.Acquire(sessionID, userID)
	defer release()

	st, err := s.Checkpoints.Load(ctx, sessionID)
	if errors.Is(err, ErrCheckpointNotFound) {
		st = newConversationState(sessionID, userID, s.Now())
	} else if err != nil {
		return nil, fmt.Errorf("process turn: %w", err)
	}

	if cached := retriedResult(st, reply, interruptID); cached != nil {
		return cached, nil
	}
	if interruptID != "" && st.PendingInterrupt != nil && st.PendingInterrupt.ID != interruptID {
		return nil, ErrStaleInterrupt
	}
	if st.Terminal() {
		return nil, ErrSessionTerminal
	}

	st.AppendLog(models.SpeakerUser, reply)
	markStart := len(st.ConversationLog)

	consumedID := ""
	if st.PendingInterrupt != nil {
		consumedID = st.PendingInterrupt.ID
		st.PendingInterrupt = nil
	}

	var intr *models.InterruptRequest
	input := &reply
	for i := 0; i < maxStepIterations; i++ {
		handler := s.handlerFor(st.CurrentStep)
		intr, err = s.runStep(ctx, handler, st, input)
		input = nil
		if err != nil {
			// Step-boundary recovery: log, keep the session at the same
			// step and ask the human to clarify.
			utils.GetLogger().Error("step handler failed",
				zap.String("sessionId", sessionID),
				zap.String("step", string(st.CurrentStep)),
				zap.Error(err))
			st.AppendLog(models.SpeakerSystem, genericFollowUp)
			intr = s.newInterrupt(st, genericFollowUp, nil)
		}
		if intr != nil || st.Terminal() {
			break
		}
	}
	if intr == nil && !st.Terminal() {
		st.AppendLog(models.SpeakerSystem, genericFollowUp)
		intr = s.newInterrupt(st, genericFollowUp, nil)
	}

	st.PendingInterrupt = intr

	messages := make([]models.Message, len(st.ConversationLog[markStart:]))
	copy(messages, st.ConversationLog[markStart:])

	result := &models.TurnResult{
		SessionID: sessionID,
		Messages:  messages,
		Interrupt: intr,
		Done:      st.Terminal(),
	}
	st.LastHandled = &models.HandledResume{
		InterruptID: consumedID,
		Reply:       reply,
		Result:      result,
	}
	st.UpdatedAt = s.Now()

	if err := s.Checkpoints.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("process turn: %w", err)
	}
	return result, nil
}

// retriedResult detects a resume the engine has already handled and returns
// its cached outcome. With an interrupt id the match is exact; without one,
// the reply must repeat the last handled reply while the session still sits
// at the interrupt that turn produced.
func retriedResult(st *models.ConversationState, reply, interruptID string) *models.TurnResult {
	lh := st.LastHandled
	if lh == nil || lh.Result == nil || lh.Reply != reply {
		return nil
	}
	if interruptID != "" {
		if interruptID == lh.InterruptID {
			return lh.Result
		}
		return nil
	}
	if st.PendingInterrupt != nil && lh.Result.Interrupt != nil &&
		st.PendingInterrupt.ID == lh.Result.Interrupt.ID {
		return lh.Result
	}
	return nil
}

// runStep executes one handler, converting a panic into the same generic
// recoverable follow-up used for handler errors. The step tag is left
// untouched so the next reply re-enters the handler.
func (s *DefaultSchedulerService) runStep(ctx context.Context, h stepHandler, st *models.ConversationState, input *string) (intr *models.InterruptRequest, err error) {
	defer func() {
		if r := recover(); r != nil {
			utils.GetLogger().Error("step handler panicked",
				zap.String("sessionId", st.SessionID),
				zap.String("step", string(st.CurrentStep)),
				zap.Any("panic", r))
			st.AppendLog(models.SpeakerSystem, genericFollowUp)
			intr = s.newInterrupt(st, genericFollowUp, nil)
			err = nil
		}
	}()
	return h(ctx, st, input)
}

// CancelSession abandons a session: the workflow is marked complete with a
// negative confirmation, the checkpoint is updated for audit, and the live
// registry entry is dropped.
func (s *DefaultSchedulerService) CancelSession(ctx context.Context, sessionID string) error {
	release := s.Registry.Acquire(sessionID, "")
	defer func() {
		release()
		s.Registry.Evict(sessionID)
	}()

	st, err := s.Checkpoints.Load(ctx, sessionID)
	if errors.Is(err, ErrCheckpointNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cancel session: %w", err)
	}
	if st.Terminal() {
		return nil
	}

	declined := false
	st.ConfirmationStatus = &declined
	st.CurrentStep = models.StepComplete
	st.PendingInterrupt = nil
	st.AppendLog(models.SpeakerSystem, "Meeting cancelled.")
	st.UpdatedAt = s.Now()
	if err := s.Checkpoints.Save(ctx, st); err != nil {
		return fmt.Errorf("cancel session: %w", err)
	}
	return nil
}

// GetState returns the persisted state for a session.
func (s *DefaultSchedulerService) GetState(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	return s.Checkpoints.Load(ctx, sessionID)
}

// SweepSessions evicts sessions idle past the registry TTL and drops their
// checkpoints. Returns how many sessions were reclaimed.
func (s *DefaultSchedulerService) SweepSessions(ctx context.Context) int {
	evicted := s.Registry.Sweep()
	for _, id := range evicted {
		if err := s.Checkpoints.Delete(ctx, id); err != nil {
			utils.GetLogger().Warn("failed to drop checkpoint for swept session",
				zap.String("sessionId", id), zap.Error(err))
		}
	}
	return len(evicted)
}

func (s *DefaultSchedulerService) newInterrupt(st *models.ConversationState, prompt string, context map[string]interface{}) *models.InterruptRequest {
	return &models.InterruptRequest{
		ID:      uuid.NewString(),
		Step:    st.CurrentStep,
		Prompt:  prompt,
		Context: context,
	}
}

func newConversationState(sessionID, userID string, now time.Time) *models.ConversationState {
	return &models.ConversationState{
		SessionID:   sessionID,
		UserID:      userID,
		CurrentStep: models.StepParseRequest,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
