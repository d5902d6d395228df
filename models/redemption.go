package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Redemption is an immutable receipt of a points-for-product exchange.
// ProductNameSnapshot captures the name at redemption time so later
// renames do not rewrite history.
type Redemption struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CustomerID          uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer            Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	ProductID           uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product             Product   `gorm:"foreignKey:ProductID" json:"-"`
	PointsSpent         int       `gorm:"not null" json:"points_spent"`
	Quantity            int       `gorm:"not null" json:"quantity"`
	ProductNameSnapshot string    `gorm:"not null" json:"product_name_snapshot"`
	CreatedAt           time.Time `json:"created_at"`
}

func (r *Redemption) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
