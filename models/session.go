package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session identifies one browsing session. The row is created lazily the
// first time a storefront route is hit and its ID travels in a cookie.
type Session struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type FlashStatus string

const (
	FlashSuccess FlashStatus = "SUCCESS"
	FlashFailure FlashStatus = "FAILURE"
)

// FlashMessage is a one-time notification for a session. It is written by
// a mutation handler and deleted the first time the cart view picks it up.
type FlashMessage struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID uuid.UUID   `gorm:"type:uuid;not null;index" json:"-"`
	Message   string      `gorm:"not null" json:"message"`
	Status    FlashStatus `gorm:"not null" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

func (f *FlashMessage) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
