package routes

import (
	"github.com/gin-gonic/gin"

	"trip-chat-service/internal/api/handlers"
	"trip-chat-service/internal/api/middleware"
	"trip-chat-service/internal/auth"
)

// Router wires the HTTP surface: the websocket handshake endpoint and the
// REST endpoints that back it up.
type Router struct {
	engine        *gin.Engine
	authenticator *auth.Authenticator
	ws            *handlers.WebSocketHandler
	messages      *handlers.MessageHandler
	notifications *handlers.NotificationHandler
	attachments   *handlers.AttachmentHandler
}

func NewRouter(
	allowedOrigins []string,
	authenticator *auth.Authenticator,
	ws *handlers.WebSocketHandler,
	messages *handlers.MessageHandler,
	notifications *handlers.NotificationHandler,
	attachments *handlers.AttachmentHandler,
) *Router {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(allowedOrigins))

	return &Router{
		engine:        engine,
		authenticator: authenticator,
		ws:            ws,
		messages:      messages,
		notifications: notifications,
		attachments:   attachments,
	}
}

func (r *Router) SetupRoutes() {
	authed := middleware.Auth(r.authenticator)

	r.engine.GET("/ws", authed, r.ws.Connect)

	api := r.engine.Group("/api/v1", authed)
	{
		api.GET("/messages/direct/:userId", r.messages.DirectHistory)
		api.POST("/messages/direct/:userId/read", r.messages.MarkConversationRead)
		api.DELETE("/messages/direct/:userId", r.messages.DeleteConversation)
		api.GET("/groups/:groupId/messages", r.messages.GroupHistory)

		api.GET("/notifications", r.notifications.List)
		api.PUT("/notifications/:id/seen", r.notifications.MarkSeen)
		api.POST("/notifications", r.notifications.Dispatch)

		api.POST("/attachments", r.attachments.Upload)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
