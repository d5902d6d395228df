package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership is a plan definition. Rule edits apply prospectively: point
// awards read the multiplier at checkout time, not at assignment time.
type Membership struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name             string    `gorm:"uniqueIndex;not null" json:"name"`
	MaxDaysPerWeek   int       `gorm:"not null" json:"max_days_per_week"`
	PointsMultiplier float64   `gorm:"not null" json:"points_multiplier"`
	Status           Status    `gorm:"default:active" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
