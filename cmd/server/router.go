package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/teamline/teamline/internal/handlers"
	"github.com/teamline/teamline/internal/middleware"
	"github.com/teamline/teamline/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	teamH *handlers.TeamHandler,
	messageH *handlers.MessageHandler,
	wsH *handlers.WebSocketHandler,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
) {
	users := r.Group("/api/users")
	{
		users.POST("/register", authH.Register)
		users.POST("/login", authH.Login)
		users.POST("/verify-token", authH.VerifyToken)
		users.POST("/logout", middleware.AuthMiddleware(jwtMgr, rdb), authH.Logout)
		users.POST("/update/:userId", userH.Update)
		users.POST("/delete/:userId", userH.Delete)
		users.POST("/all", userH.All)
	}

	teams := r.Group("/api/teams")
	{
		teams.POST("/create", teamH.Create)
		teams.POST("/join", teamH.Join)
		teams.POST("/leave", teamH.Leave)
	}

	messages := r.Group("/api/messages")
	{
		messages.POST("/send", messageH.Send)
		messages.GET("/:teamId", messageH.History)
	}

	r.GET("/ws/chat", wsH.HandleWebSocket)
}
