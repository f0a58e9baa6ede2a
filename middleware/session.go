package middleware

import (
	"tourbook/models"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "tb_session"
	// sessionContextKey is where the resolved session lives in the gin context.
	sessionContextKey = "visitorSession"
)

// Session resolves the visitor session from the request cookie, minting
// a fresh one on first visit or when the old one expired.
func Session(store *utils.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
			if session, err := store.Resolve(ctx, token); err == nil {
				c.Set(sessionContextKey, session)
				c.Next()
				return
			}
		}

		session, token, err := store.Mint(ctx)
		if err != nil {
			utils.GetLogger().Error("failed to mint visitor session", zap.Error(err))
			c.Next()
			return
		}
		c.SetCookie(SessionCookie, token, int(store.TTL.Seconds()), "/", "", false, true)
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// SessionFrom returns the resolved session, or nil when minting failed.
func SessionFrom(c *gin.Context) *models.VisitorSession {
	if v, ok := c.Get(sessionContextKey); ok {
		if session, ok := v.(*models.VisitorSession); ok {
			return session
		}
	}
	return nil
}
