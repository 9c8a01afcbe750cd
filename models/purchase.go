package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase is the contents of one session's shopping cart. It is created
// lazily on the first add and kept around (possibly with no line items)
// for the lifetime of the session.
type Purchase struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	Items     []LineItem     `gorm:"foreignKey:PurchaseID" json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// LineItem pairs one product with a quantity inside a Purchase. The
// composite unique index keeps at most one line per product per purchase.
type LineItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_product" json:"purchase_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_product" json:"product_id"`
	Product    Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (l *LineItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
