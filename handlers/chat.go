package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"meetsync/middleware"
	"meetsync/models"
	"meetsync/services/scheduler"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatRequest is one REST chat turn. SessionID is optional; a missing or
// unknown id starts a fresh conversation.
type ChatRequest struct {
	Question    string `json:"question" binding:"required"`
	SessionID   string `json:"sessionId,omitempty"`
	UserID      string `json:"userId,omitempty"`
	InterruptID string `json:"interruptId,omitempty"`
}

// ChatResponse carries the system's side of the turn back to the client.
type ChatResponse struct {
	SessionID string                   `json:"sessionId"`
	Response  string                   `json:"response"`
	Interrupt *models.InterruptRequest `json:"interrupt,omitempty"`
	Done      bool                     `json:"done"`
}

// ChatHandler processes one conversational turn over REST.
func ChatHandler(svc scheduler.SchedulerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}

		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		userID := resolveUserID(c, req.UserID)

		result, err := svc.ProcessTurn(c.Request.Context(), sessionID, userID, req.Question, req.InterruptID)
		if err != nil {
			writeSchedulerError(c, err)
			return
		}

		c.JSON(http.StatusOK, ChatResponse{
			SessionID: result.SessionID,
			Response:  joinMessages(result.Messages),
			Interrupt: result.Interrupt,
			Done:      result.Done,
		})
	}
}

// GetSessionHandler returns the persisted conversation state for a session.
func GetSessionHandler(svc scheduler.SchedulerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := svc.GetState(c.Request.Context(), c.Param("sessionID"))
		if err != nil {
			writeSchedulerError(c, err)
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// CancelSessionHandler abandons a session.
func CancelSessionHandler(svc scheduler.SchedulerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
			writeSchedulerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
	}
}

// IssueTokenHandler mints a short-lived bearer token for a user id. Meant
// for clients that have authenticated out of band.
func IssueTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			UserID string `json:"userId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
		token, err := utils.GenerateToken(input.UserID, 24*time.Hour)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to issue token", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

func resolveUserID(c *gin.Context, requested string) string {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	if requested != "" {
		return requested
	}
	return "anonymous"
}

func joinMessages(messages []models.Message) string {
	var texts []string
	for _, m := range messages {
		if m.Speaker == models.SpeakerSystem {
			texts = append(texts, m.Text)
		}
	}
	return strings.Join(texts, "\n\n")
}

func writeSchedulerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrCheckpointNotFound):
		utils.JSONError(c, http.StatusNotFound, "session not found", err.Error())
	case errors.Is(err, scheduler.ErrSessionTerminal):
		utils.JSONError(c, http.StatusConflict, "session already complete", err.Error())
	case errors.Is(err, scheduler.ErrStaleInterrupt):
		utils.JSONError(c, http.StatusConflict, "stale interrupt id", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "failed to process message", err.Error())
	}
}
