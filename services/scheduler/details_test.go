package scheduler

import (
	"strings"
	"testing"

	"meetsync/models"
)

func detailsState(svc *DefaultSchedulerService) *models.ConversationState {
	st := &models.ConversationState{
		SessionID:   "s1",
		UserID:      "u1",
		CurrentStep: models.StepHumanMeetingDetails,
		Attendees:   svc.Knowledge.Lookup([]string{"John", "Sarah"}),
		TargetDate:  "2025-08-13",
		AvailableSlots: []models.TimeSlot{
			{Date: "2025-08-13", StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30},
			{Date: "2025-08-13", StartTime: "10:00", EndTime: "10:30", DurationMinutes: 30},
			{Date: "2025-08-13", StartTime: "14:00", EndTime: "14:30", DurationMinutes: 30},
		},
	}
	svc.prepareRoomOptions(st)
	return st
}

func TestCabinReplyImpliesInPerson(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)

	a := svc.parseDetailsFallback(st, "let's take cabin M2C3")
	intr, err := svc.mergeDetails(st, a)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if st.MeetingFormat != models.FormatInPerson {
		t.Fatalf("format = %q, want in-person", st.MeetingFormat)
	}
	if st.MeetingRoom == nil || st.MeetingRoom.CabinID != "M2C3" {
		t.Fatalf("room = %+v, want M2C3", st.MeetingRoom)
	}
	if intr == nil {
		t.Fatal("expected a follow-up for the remaining details")
	}
	if strings.Contains(strings.ToLower(intr.Prompt), "virtual or in-person") {
		t.Fatalf("room answer must short-circuit the format question, got %q", intr.Prompt)
	}
}

func TestUnknownCabinReprompts(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)

	a := svc.parseDetailsFallback(st, "book cabin Z9Z9")
	if a.Action != models.ActionInvalidSelection {
		t.Fatalf("action = %q, want invalid_selection", a.Action)
	}
	intr, err := svc.mergeDetails(st, a)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if intr == nil {
		t.Fatal("expected a re-prompt")
	}
	if st.MeetingRoom != nil {
		t.Fatalf("room should stay unset, got %+v", st.MeetingRoom)
	}
}

func TestOutOfRangeOrdinalReprompts(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)

	a := svc.parseDetailsFallback(st, "the 9th one")
	if a.Action != models.ActionInvalidSelection {
		t.Fatalf("action = %q, want invalid_selection", a.Action)
	}
	intr, err := svc.mergeDetails(st, a)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if intr == nil {
		t.Fatal("expected a re-prompt")
	}
	if st.SelectedSlot != nil {
		t.Fatalf("slot should stay unset, got %+v", st.SelectedSlot)
	}
	if st.CurrentStep != models.StepHumanMeetingDetails {
		t.Fatalf("step = %q, want to stay in the details loop", st.CurrentStep)
	}
}

func TestSlotSelectionVariants(t *testing.T) {
	svc := newTestService(nil, nil)

	cases := []struct {
		reply     string
		wantStart string
	}{
		{"the first one", "09:00"},
		{"the second one", "10:00"},
		{"2", "10:00"},
		{"slot 3", "14:00"},
		{"the morning slot", "09:00"},
		{"afternoon works", "14:00"},
		{"10:00 works for me", "10:00"},
		{"2pm please", "14:00"},
	}
	for _, tc := range cases {
		t.Run(tc.reply, func(t *testing.T) {
			st := detailsState(svc)
			a := svc.parseDetailsFallback(st, tc.reply)
			if a.SelectedSlot == nil {
				t.Fatalf("no slot resolved from %q", tc.reply)
			}
			if a.SelectedSlot.StartTime != tc.wantStart {
				t.Fatalf("resolved %q, want %q", a.SelectedSlot.StartTime, tc.wantStart)
			}
		})
	}
}

func TestDurationDigitsNotMistakenForOrdinal(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)

	a := svc.parseDetailsFallback(st, "make it 45 minutes")
	if a.Action == models.ActionInvalidSelection {
		t.Fatal("duration digits were misread as a slot ordinal")
	}
	if a.DurationMinutes != 45 {
		t.Fatalf("duration = %d, want 45", a.DurationMinutes)
	}
}

func TestDurationAdjustsSelectedSlot(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)

	a := svc.parseDetailsFallback(st, "first slot, make it 45 minutes")
	if _, err := svc.mergeDetails(st, a); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if st.SelectedSlot == nil || st.SelectedSlot.EndTime != "09:45" || st.SelectedSlot.DurationMinutes != 45 {
		t.Fatalf("slot = %+v, want 09:00-09:45", st.SelectedSlot)
	}
}

func TestAgendaNeverOverwrittenByEmptyReply(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)
	st.MeetingAgenda = "quarterly planning"
	st.MeetingTitle = "Quarterly Planning"

	a := svc.parseDetailsFallback(st, "virtual please")
	if _, err := svc.mergeDetails(st, a); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if st.MeetingAgenda != "quarterly planning" {
		t.Fatalf("agenda = %q, existing agenda must be preserved", st.MeetingAgenda)
	}
	if st.MeetingFormat != models.FormatVirtual {
		t.Fatalf("format = %q, want virtual", st.MeetingFormat)
	}
}

func TestBareReplyAfterSlotBecomesAgenda(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)
	st.SelectedSlot = &st.AvailableSlots[0]

	a := svc.parseDetailsFallback(st, "roadmap planning for the launch")
	if a.MeetingAgenda != "roadmap planning for the launch" {
		t.Fatalf("agenda = %q", a.MeetingAgenda)
	}
	if _, err := svc.mergeDetails(st, a); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if st.MeetingTitle != "Roadmap Planning For The..." {
		t.Fatalf("title = %q, want truncated derived title", st.MeetingTitle)
	}
}

func TestTargetedFollowUpNamesMissingPieces(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)
	st.SelectedSlot = &st.AvailableSlots[0]
	st.MeetingAgenda = "budget review"
	st.MeetingTitle = "Budget Review"

	followUp := svc.missingFollowUp(st)
	if !strings.Contains(followUp, "virtual or in-person") {
		t.Fatalf("follow-up should ask only about format, got %q", followUp)
	}
	if strings.Contains(followUp, "topic") || strings.Contains(followUp, "time works") {
		t.Fatalf("follow-up must not re-ask answered questions: %q", followUp)
	}
}

func TestInPersonWithoutRoomAsksForCabin(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)
	st.SelectedSlot = &st.AvailableSlots[0]
	st.MeetingAgenda = "budget review"
	st.MeetingFormat = models.FormatInPerson
	st.AvailableRooms = nil

	followUp := svc.missingFollowUp(st)
	if !strings.Contains(followUp, "cabin") {
		t.Fatalf("follow-up should ask for a cabin, got %q", followUp)
	}
}

func TestInPersonSameLocationAutoPicksRoom(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)

	a := svc.parseDetailsFallback(st, "in person is fine")
	if _, err := svc.mergeDetails(st, a); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if st.MeetingFormat != models.FormatInPerson {
		t.Fatalf("format = %q, want in-person", st.MeetingFormat)
	}
	if st.MeetingRoom == nil {
		t.Fatal("same-location in-person reply should book the smallest suitable cabin")
	}
	if st.MeetingRoom.CabinID != st.AvailableRooms[0].CabinID {
		t.Fatalf("room = %q, want first option %q", st.MeetingRoom.CabinID, st.AvailableRooms[0].CabinID)
	}
}

func TestConfirmBeforeReadyAsksForMissing(t *testing.T) {
	svc := newTestService(nil, nil)
	st := detailsState(svc)

	a := svc.parseDetailsFallback(st, "confirm")
	if a.Action != models.ActionConfirm {
		t.Fatalf("action = %q, want confirm", a.Action)
	}
	intr, err := svc.mergeDetails(st, a)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if intr == nil {
		t.Fatal("confirming an incomplete record must re-prompt")
	}
	if st.CurrentStep != models.StepHumanMeetingDetails {
		t.Fatalf("step = %q, must stay in details", st.CurrentStep)
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		agenda string
		want   string
	}{
		{"budget review", "Budget Review"},
		{"quarterly planning session with leads", "Quarterly Planning Session With..."},
		{"sync", "Sync"},
	}
	for _, tt := range tests {
		if got := deriveTitle(tt.agenda); got != tt.want {
			t.Errorf("deriveTitle(%q) = %q, want %q", tt.agenda, got, tt.want)
		}
	}
}

func TestRoomOptionsForSplitGroup(t *testing.T) {
	svc := newTestService(nil, nil)
	st := &models.ConversationState{
		CurrentStep: models.StepHumanMeetingDetails,
		Attendees:   svc.Knowledge.Lookup([]string{"John", "Priya"}),
	}
	svc.prepareRoomOptions(st)
	if svc.sameLocation(st) {
		t.Fatal("John and Priya sit in different offices")
	}
	locations := map[string]bool{}
	for _, room := range st.AvailableRooms {
		locations[room.Location] = true
	}
	if len(locations) != 2 {
		t.Fatalf("room options should span both locations, got %+v", st.AvailableRooms)
	}
}
