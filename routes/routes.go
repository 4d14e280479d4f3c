package routes

import (
	"net/http"
	"time"

	"meetsync/handlers"
	"meetsync/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the conversational scheduling endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/token", hb.IssueTokenHandler)

		// Chat works with or without a token; a valid token pins the user id.
		api.POST("/chat", middleware.JWTAuthMiddleware(true), hb.ChatHandler)
		api.GET("/sessions/:sessionID", middleware.JWTAuthMiddleware(true), hb.GetSessionHandler)
		api.DELETE("/sessions/:sessionID", middleware.JWTAuthMiddleware(true), hb.CancelSessionHandler)
	}
}

// RegisterMeetingRoutes registers the meeting archive endpoints.
func RegisterMeetingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/meetings")
	{
		api.Use(middleware.JWTAuthMiddleware(false))
		api.GET("", hb.ListMeetingsHandler)
		api.GET("/:sessionID", hb.GetMeetingHandler)
	}
}

// RegisterWebSocketRoutes registers the websocket chat endpoint.
func RegisterWebSocketRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws/:sessionID", hb.WebSocketChatHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm MeetSync"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterChatRoutes(r, hb)
	RegisterMeetingRoutes(r, hb)
	RegisterWebSocketRoutes(r, hb)
}
