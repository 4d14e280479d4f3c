package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"meetsync/models"
)

func TestRouteFallsBackToParseRequest(t *testing.T) {
	tests := []struct {
		step models.Step
		want models.Step
	}{
		{models.StepParseRequest, models.StepParseRequest},
		{models.StepCheckAvailability, models.StepCheckAvailability},
		{models.StepHumanMeetingDetails, models.StepHumanMeetingDetails},
		{models.StepSendInvites, models.StepSendInvites},
		{models.StepComplete, models.StepComplete},
		{models.Step(""), models.StepParseRequest},
		{models.Step("bogus"), models.StepParseRequest},
		{models.Step("select_time"), models.StepParseRequest},
	}
	for _, tt := range tests {
		if got := route(tt.step); got != tt.want {
			t.Errorf("route(%q) = %q, want %q", tt.step, got, tt.want)
		}
	}
}

func TestFullConversationWithoutOracle(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newTestService(nil, dispatcher)
	ctx := context.Background()

	// Turn 1: initial request. Tomorrow is 2025-08-13; John and Sarah have
	// no OOO or travel that day.
	res, err := svc.ProcessTurn(ctx, "s1", "u1", "Schedule a meeting with John and Sarah on 2025-08-13", "")
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if res.Done {
		t.Fatal("turn 1: workflow completed prematurely")
	}
	if res.Interrupt == nil {
		t.Fatal("turn 1: expected an interrupt asking for details")
	}
	st, err := svc.GetState(ctx, "s1")
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if st.CurrentStep != models.StepHumanMeetingDetails {
		t.Fatalf("turn 1: step = %q, want %q", st.CurrentStep, models.StepHumanMeetingDetails)
	}
	if len(st.Attendees) != 2 {
		t.Fatalf("turn 1: attendees = %d, want 2", len(st.Attendees))
	}
	if len(st.AvailableSlots) != 3 {
		t.Fatalf("turn 1: slots = %d, want 3", len(st.AvailableSlots))
	}
	if st.AvailableSlots[0].StartTime != "08:00" {
		t.Fatalf("turn 1: first slot = %q, want 08:00", st.AvailableSlots[0].StartTime)
	}

	// Turn 2: one reply fills slot, format and agenda at once.
	res2, err := svc.ProcessTurn(ctx, "s1", "u1", "2nd slot, virtual, topic: budget review", res.Interrupt.ID)
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	if res2.Interrupt == nil {
		t.Fatal("turn 2: expected a confirmation interrupt")
	}
	st, _ = svc.GetState(ctx, "s1")
	if st.SelectedSlot == nil || st.SelectedSlot.StartTime != "08:30" {
		t.Fatalf("turn 2: selected slot = %+v, want start 08:30", st.SelectedSlot)
	}
	if st.MeetingFormat != models.FormatVirtual {
		t.Fatalf("turn 2: format = %q, want virtual", st.MeetingFormat)
	}
	if st.MeetingAgenda != "budget review" {
		t.Fatalf("turn 2: agenda = %q, want %q", st.MeetingAgenda, "budget review")
	}
	if !strings.Contains(res2.Interrupt.Prompt, "confirm") {
		t.Fatalf("turn 2: prompt does not ask for confirmation: %q", res2.Interrupt.Prompt)
	}

	// Turn 3: explicit confirmation dispatches and completes.
	res3, err := svc.ProcessTurn(ctx, "s1", "u1", "confirm", res2.Interrupt.ID)
	if err != nil {
		t.Fatalf("turn 3: %v", err)
	}
	if !res3.Done {
		t.Fatal("turn 3: workflow should be complete")
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("turn 3: dispatched %d records, want 1", len(dispatcher.sent))
	}
	rec := dispatcher.sent[0]
	if rec.Title != "Budget Review" {
		t.Fatalf("turn 3: title = %q, want Budget Review", rec.Title)
	}
	if rec.Location != "Online" {
		t.Fatalf("turn 3: location = %q, want Online", rec.Location)
	}
	if len(rec.AttendeeEmails) != 2 {
		t.Fatalf("turn 3: emails = %v", rec.AttendeeEmails)
	}
	joined := strings.Join(messagesText(res3.Messages), "\n")
	if !strings.Contains(joined, "Invites sent successfully") {
		t.Fatalf("turn 3: missing success acknowledgment in %q", joined)
	}

	// A genuinely new message after completion is rejected.
	if _, err := svc.ProcessTurn(ctx, "s1", "u1", "one more thing", ""); !errors.Is(err, ErrSessionTerminal) {
		t.Fatalf("post-complete turn: err = %v, want ErrSessionTerminal", err)
	}
}

func TestRetriedResumeIsIdempotent(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	res, err := svc.ProcessTurn(ctx, "s1", "u1", "meeting with John and Sarah tomorrow", "")
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}

	first, err := svc.ProcessTurn(ctx, "s1", "u1", "the first one", res.Interrupt.ID)
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	st, _ := svc.GetState(ctx, "s1")
	logLen := len(st.ConversationLog)

	// Same interrupt id and reply again, as a transport retry would send.
	retry, err := svc.ProcessTurn(ctx, "s1", "u1", "the first one", res.Interrupt.ID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retry.Interrupt == nil || first.Interrupt == nil || retry.Interrupt.ID != first.Interrupt.ID {
		t.Fatal("retry did not return the cached result")
	}
	if len(retry.Messages) != len(first.Messages) {
		t.Fatalf("retry messages = %d, want %d", len(retry.Messages), len(first.Messages))
	}

	st, _ = svc.GetState(ctx, "s1")
	if len(st.ConversationLog) != logLen {
		t.Fatalf("conversation log grew from %d to %d on retry", logLen, len(st.ConversationLog))
	}
	if st.SelectedSlot == nil || st.SelectedSlot.StartTime != "08:00" {
		t.Fatalf("retry corrupted selected slot: %+v", st.SelectedSlot)
	}

	// Retry without an interrupt id also returns the cached result.
	retry2, err := svc.ProcessTurn(ctx, "s1", "u1", "the first one", "")
	if err != nil {
		t.Fatalf("retry without id: %v", err)
	}
	if len(st.ConversationLog) != logLen || retry2.Interrupt.ID != first.Interrupt.ID {
		t.Fatal("retry without id mutated state")
	}
}

func TestStaleInterruptRejected(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	if _, err := svc.ProcessTurn(ctx, "s1", "u1", "meeting with John and Sarah tomorrow", ""); err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if _, err := svc.ProcessTurn(ctx, "s1", "u1", "the first one", "not-the-pending-id"); !errors.Is(err, ErrStaleInterrupt) {
		t.Fatalf("err = %v, want ErrStaleInterrupt", err)
	}
}

func TestPastDateShortCircuitsSlots(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	res, err := svc.ProcessTurn(ctx, "s1", "u1", "meeting with John and Sarah on 2025-08-11", "")
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	st, _ := svc.GetState(ctx, "s1")
	if !st.DateInvalid {
		t.Fatal("expected the past date to be flagged invalid")
	}
	if len(st.AvailableSlots) != 0 {
		t.Fatalf("slots = %d, want 0 for a past date", len(st.AvailableSlots))
	}
	if res.Interrupt == nil {
		t.Fatal("expected a corrected-date interrupt")
	}
	prompt := strings.ToLower(res.Interrupt.Prompt)
	if strings.Contains(prompt, "cabin") || strings.Contains(prompt, "virtual") {
		t.Fatalf("past-date prompt must not ask about rooms or format: %q", res.Interrupt.Prompt)
	}

	// A corrected date re-enters availability checking.
	res2, err := svc.ProcessTurn(ctx, "s1", "u1", "tomorrow works", res.Interrupt.ID)
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	st, _ = svc.GetState(ctx, "s1")
	if st.DateInvalid {
		t.Fatal("date should no longer be invalid after correction")
	}
	if len(st.AvailableSlots) != 3 {
		t.Fatalf("slots after correction = %d, want 3", len(st.AvailableSlots))
	}
	if st.TargetDate != "2025-08-13" {
		t.Fatalf("target date = %q, want 2025-08-13", st.TargetDate)
	}
	if res2.Interrupt == nil {
		t.Fatal("expected the details interrupt after correction")
	}
}

func TestDispatchFailureStillCompletes(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("calendar down")}
	svc := newTestService(nil, dispatcher)
	ctx := context.Background()

	res, err := svc.ProcessTurn(ctx, "s1", "u1", "meeting with John and Sarah tomorrow", "")
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	res, err = svc.ProcessTurn(ctx, "s1", "u1", "first slot, virtual, topic: roadmap", res.Interrupt.ID)
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	res, err = svc.ProcessTurn(ctx, "s1", "u1", "confirm", res.Interrupt.ID)
	if err != nil {
		t.Fatalf("turn 3: %v", err)
	}
	if !res.Done {
		t.Fatal("session must complete even when dispatch fails")
	}
	joined := strings.Join(messagesText(res.Messages), "\n")
	if strings.Contains(joined, "Invites sent successfully") {
		t.Fatal("failure must not produce a success acknowledgment")
	}
	if !strings.Contains(joined, "couldn't send") {
		t.Fatalf("expected an explicit failure notice, got %q", joined)
	}
}

func TestEmailsNotSentOmitsSuccessAck(t *testing.T) {
	dispatcher := &fakeDispatcher{result: &models.DispatchResult{Status: "success", EmailsSent: false}}
	svc := newTestService(nil, dispatcher)
	ctx := context.Background()

	res, _ := svc.ProcessTurn(ctx, "s1", "u1", "meeting with John and Sarah tomorrow", "")
	res, _ = svc.ProcessTurn(ctx, "s1", "u1", "first slot, virtual, topic: roadmap", res.Interrupt.ID)
	res, err := svc.ProcessTurn(ctx, "s1", "u1", "confirm", res.Interrupt.ID)
	if err != nil {
		t.Fatalf("confirm turn: %v", err)
	}
	if !res.Done {
		t.Fatal("session should complete")
	}
	joined := strings.Join(messagesText(res.Messages), "\n")
	if strings.Contains(joined, "Invites sent successfully") {
		t.Fatal("success acknowledgment requires emails_sent")
	}
}

func TestCancelDuringDetails(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	res, err := svc.ProcessTurn(ctx, "s1", "u1", "meeting with John and Sarah tomorrow", "")
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	res2, err := svc.ProcessTurn(ctx, "s1", "u1", "actually, cancel this", res.Interrupt.ID)
	if err != nil {
		t.Fatalf("cancel turn: %v", err)
	}
	if !res2.Done {
		t.Fatal("cancellation should complete the session")
	}
	st, _ := svc.GetState(ctx, "s1")
	if st.ConfirmationStatus == nil || *st.ConfirmationStatus {
		t.Fatal("confirmation status should be explicitly false after cancel")
	}
}

func TestCancelSessionEndpointPath(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	if _, err := svc.ProcessTurn(ctx, "s1", "u1", "meeting with John tomorrow", ""); err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if err := svc.CancelSession(ctx, "s1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	st, err := svc.GetState(ctx, "s1")
	if err != nil {
		t.Fatalf("state after cancel: %v", err)
	}
	if !st.Terminal() {
		t.Fatal("cancelled session should be terminal")
	}
	// Cancelling an unknown session is not an error.
	if err := svc.CancelSession(ctx, "unknown"); err != nil {
		t.Fatalf("cancel unknown: %v", err)
	}
}

func TestGreetingStartsFreshPrompt(t *testing.T) {
	svc := newTestService(nil, nil)
	res, err := svc.ProcessTurn(context.Background(), "s1", "u1", "hi", "")
	if err != nil {
		t.Fatalf("greeting turn: %v", err)
	}
	if res.Interrupt == nil {
		t.Fatal("greeting should produce a prompt for the request")
	}
	st, _ := svc.GetState(context.Background(), "s1")
	if st.CurrentStep != models.StepParseRequest {
		t.Fatalf("step = %q, want parse_request", st.CurrentStep)
	}
}

func TestUnknownAttendeesAskFollowUp(t *testing.T) {
	svc := newTestService(nil, nil)
	res, err := svc.ProcessTurn(context.Background(), "s1", "u1", "set up a meeting with Zorblax", "")
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.Interrupt == nil {
		t.Fatal("expected a follow-up about attendees")
	}
	if !strings.Contains(strings.ToLower(res.Interrupt.Prompt), "who") {
		t.Fatalf("prompt should ask who should attend: %q", res.Interrupt.Prompt)
	}
}

func messagesText(messages []models.Message) []string {
	var out []string
	for _, m := range messages {
		out = append(out, m.Text)
	}
	return out
}
