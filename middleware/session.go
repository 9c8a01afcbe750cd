package middleware

import (
	"net/http"
	"time"

	"acme-storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "cart_session"

// sessionTTL is how long the session cookie lives. The server-side row is
// kept; an expired cookie simply starts a fresh session with an empty cart.
const sessionTTL = 30 * 24 * time.Hour

// SessionMiddleware resolves the browsing session for storefront routes.
// A valid cookie restores the existing session; anything else lazily
// creates a new session row and sets the cookie. The session id ends up
// in the gin context under "session_id".
func SessionMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(SessionCookie); err == nil {
			if id, err := uuid.Parse(raw); err == nil {
				var session models.Session
				if err := db.Where("id = ?", id).First(&session).Error; err == nil {
					c.Set("session_id", session.ID)
					c.Next()
					return
				}
			}
		}

		session := models.Session{ID: uuid.New()}
		if err := db.Create(&session).Error; err != nil {
			log.Error().Err(err).Msg("failed to create session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open session"})
			c.Abort()
			return
		}

		c.SetCookie(SessionCookie, session.ID.String(), int(sessionTTL.Seconds()), "/", "", false, true)
		c.Set("session_id", session.ID)
		c.Next()
	}
}
