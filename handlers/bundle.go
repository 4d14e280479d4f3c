// File: handlers/bundle.go
package handlers

import (
	meetingRepoPkg "meetsync/database/repository/meeting"
	"meetsync/services/scheduler"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Scheduler   scheduler.SchedulerService
	MeetingRepo meetingRepoPkg.MeetingRepository

	// Chat endpoints
	ChatHandler          gin.HandlerFunc
	WebSocketChatHandler gin.HandlerFunc

	// Session endpoints
	GetSessionHandler    gin.HandlerFunc
	CancelSessionHandler gin.HandlerFunc

	// Meeting history endpoints
	ListMeetingsHandler gin.HandlerFunc
	GetMeetingHandler   gin.HandlerFunc

	// Auth
	IssueTokenHandler gin.HandlerFunc
}

// NewHandlerBundle wires the default handlers around the given services.
func NewHandlerBundle(svc scheduler.SchedulerService, meetings meetingRepoPkg.MeetingRepository) *HandlerBundle {
	return &HandlerBundle{
		Scheduler:            svc,
		MeetingRepo:          meetings,
		ChatHandler:          ChatHandler(svc),
		WebSocketChatHandler: WebSocketChatHandler(svc),
		GetSessionHandler:    GetSessionHandler(svc),
		CancelSessionHandler: CancelSessionHandler(svc),
		ListMeetingsHandler:  ListMeetingsHandler(meetings),
		GetMeetingHandler:    GetMeetingHandler(meetings),
		IssueTokenHandler:    IssueTokenHandler(),
	}
}
