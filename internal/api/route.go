package api

import (
	"Chillz/internal/api/middleware"
	"Chillz/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		// WebSocket 推送通道，鉴权走 token query 参数
		apiGroup.GET("/im", group.WsHandler.Connect)

		authGroup := apiGroup.Group("")
		authGroup.Use(middleware.AuthMiddleware())
		{
			authGroup.GET("/me", group.ProfileHandler.Me)
			authGroup.POST("/profile/setup", group.ProfileHandler.Setup)
			authGroup.PUT("/profile", group.ProfileHandler.Update)
			authGroup.GET("/username/check", group.ProfileHandler.CheckUsername)
			authGroup.GET("/user/by-username", group.ProfileHandler.ByUsername)
			authGroup.GET("/discover/users", group.ProfileHandler.Discover)
		}

		vibeCheckGroup := apiGroup.Group("/vibe-checks")
		vibeCheckGroup.Use(middleware.AuthMiddleware())
		{
			vibeCheckGroup.POST("", group.VibeCheckHandler.Send)
			vibeCheckGroup.GET("/inbox", group.VibeCheckHandler.Inbox)
			vibeCheckGroup.GET("/outbox", group.VibeCheckHandler.Outbox)
			vibeCheckGroup.POST("/:check_id/accept", group.VibeCheckHandler.Accept)
			vibeCheckGroup.POST("/:check_id/decline", group.VibeCheckHandler.Decline)
		}

		chatGroup := apiGroup.Group("/chats")
		chatGroup.Use(middleware.AuthMiddleware())
		{
			chatGroup.POST("/direct", group.ChatHandler.OpenDirect)
			chatGroup.GET("", group.ChatHandler.ListChats)
			chatGroup.GET("/:chat_id/messages", group.ChatHandler.Messages)
			chatGroup.POST("/:chat_id/messages", group.ChatHandler.SendMessage)
		}

		presenceGroup := apiGroup.Group("/presence")
		presenceGroup.Use(middleware.AuthMiddleware())
		{
			presenceGroup.PUT("/state", group.PresenceHandler.SetState)
			presenceGroup.GET("", group.PresenceHandler.GetMany)
		}
	}

	return r
}
