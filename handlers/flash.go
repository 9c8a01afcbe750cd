package handlers

import (
	"acme-storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// putFlash stores a one-time notification for the session. A failure to
// store the flash is logged but never fails the request that produced it.
func putFlash(db *gorm.DB, sessionID uuid.UUID, message string, status models.FlashStatus) {
	flash := models.FlashMessage{
		SessionID: sessionID,
		Message:   message,
		Status:    status,
	}
	if err := db.Create(&flash).Error; err != nil {
		log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to store flash message")
	}
}

// popFlash returns the oldest pending flash for the session and deletes
// it, so each notification is delivered exactly once.
func popFlash(db *gorm.DB, sessionID uuid.UUID) *models.FlashMessage {
	var flash models.FlashMessage
	err := db.Where("session_id = ?", sessionID).Order("created_at ASC").First(&flash).Error
	if err != nil {
		return nil
	}
	if err := db.Delete(&flash).Error; err != nil {
		log.Error().Err(err).Msg("failed to consume flash message")
	}
	return &flash
}

// sessionFromContext pulls the session id set by the session middleware.
func sessionFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("session_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
