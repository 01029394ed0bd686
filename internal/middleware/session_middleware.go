package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/latifliving/storefront-backend/internal/app/model"
)

// SessionHeader carries the guest cart session token. Clients persist the
// token and send it back on every cart request until they log in.
const SessionHeader = "X-Session-Token"

const sessionIDKey = "session_id"

// GuestSession reads the session token from the request header, minting a
// fresh one when the client has none yet. The token is echoed back in the
// response so the client can store it.
func GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			token = uuid.NewString()
		}

		c.Set(sessionIDKey, token)
		c.Header(SessionHeader, token)

		c.Next()
	}
}

// GetSessionID extracts the guest session token from context.
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID := c.GetString(sessionIDKey)
	return sessionID, sessionID != ""
}

// GetCartIdentity resolves who the current cart request belongs to. An
// authenticated user always wins over the guest session token.
func GetCartIdentity(c *gin.Context) model.CartIdentity {
	if userID, ok := GetUserID(c); ok {
		return model.CartIdentity{UserID: &userID}
	}
	sessionID, _ := GetSessionID(c)
	return model.CartIdentity{SessionID: sessionID}
}
