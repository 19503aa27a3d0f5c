package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trip-chat-service/internal/auth"
	"trip-chat-service/pkg/response"
)

const UserIDKey = "user_id"

// Auth authenticates a request from its bearer credential. Websocket clients
// pass the token as a query parameter (browsers cannot set headers on a
// websocket handshake); REST clients use the Authorization header. Either
// way the connection is refused before any session or handler state exists.
func Auth(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			tokenString = c.GetHeader("Authorization")
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		userID, err := authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, err.Error())
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID pulls the authenticated user id out of the request context.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
