package handlers

import (
	"net/http"

	"meetsync/models"
	"meetsync/services/scheduler"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from arbitrary origins; auth happens at the
	// message level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsInbound is one client frame on the chat socket.
type wsInbound struct {
	Message     string `json:"message"`
	UserID      string `json:"user_id"`
	InterruptID string `json:"interrupt_id"`
}

// wsOutbound is one server frame. Type is one of connected, message,
// question, complete, error.
type wsOutbound struct {
	Type        string                 `json:"type"`
	Message     string                 `json:"message,omitempty"`
	InterruptID string                 `json:"interrupt_id,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

// WebSocketChatHandler runs a full scheduling conversation over one socket.
// The session id lives in the path, so a client that reconnects with the
// same id resumes exactly where the workflow suspended.
func WebSocketChatHandler(svc scheduler.SchedulerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()
		sessionID := c.Param("sessionID")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		if err := conn.WriteJSON(wsOutbound{
			Type:    "connected",
			Message: "Connected! Please describe the meeting you'd like to schedule.",
		}); err != nil {
			return
		}

		for {
			var in wsInbound
			if err := conn.ReadJSON(&in); err != nil {
				logger.Info("websocket closed", zap.String("sessionId", sessionID), zap.Error(err))
				return
			}
			if in.Message == "" {
				continue
			}
			userID := in.UserID
			if userID == "" {
				userID = "anonymous"
			}

			result, err := svc.ProcessTurn(c.Request.Context(), sessionID, userID, in.Message, in.InterruptID)
			if err != nil {
				_ = conn.WriteJSON(wsOutbound{Type: "error", Message: err.Error()})
				continue
			}

			for _, msg := range result.Messages {
				if msg.Speaker != models.SpeakerSystem {
					continue
				}
				if err := conn.WriteJSON(wsOutbound{Type: "message", Message: msg.Text}); err != nil {
					return
				}
			}
			if result.Interrupt != nil {
				if err := conn.WriteJSON(wsOutbound{
					Type:        "question",
					Message:     result.Interrupt.Prompt,
					InterruptID: result.Interrupt.ID,
					Context:     result.Interrupt.Context,
				}); err != nil {
					return
				}
			}
			if result.Done {
				_ = conn.WriteJSON(wsOutbound{Type: "complete", Message: "Session complete."})
				return
			}
		}
	}
}
