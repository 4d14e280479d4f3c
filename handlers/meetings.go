package handlers

import (
	"net/http"
	"strconv"

	meetingRepoPkg "meetsync/database/repository/meeting"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
)

// ListMeetingsHandler returns the caller's booked meetings, newest first.
func ListMeetingsHandler(repo meetingRepoPkg.MeetingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repo == nil {
			utils.JSONError(c, http.StatusServiceUnavailable, "meeting archive unavailable", "")
			return
		}

		userID := resolveUserID(c, c.Query("userId"))
		limit := 20
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		records, err := repo.ListByUser(c.Request.Context(), userID, limit)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to list meetings", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"meetings": records})
	}
}

// GetMeetingHandler returns the booked meeting for one session, if any.
func GetMeetingHandler(repo meetingRepoPkg.MeetingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repo == nil {
			utils.JSONError(c, http.StatusServiceUnavailable, "meeting archive unavailable", "")
			return
		}

		record, err := repo.GetBySession(c.Request.Context(), c.Param("sessionID"))
		if err != nil {
			utils.JSONError(c, http.StatusNotFound, "meeting not found", err.Error())
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
