package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Validity window and base award per visit. Provisional business values,
// kept as named constants so they can move to config without touching
// control flow.
const (
	MinValidMinutes = 30
	MaxValidMinutes = 300
	BaseVisitPoints = 10
)

// Attendance is one check-in/check-out session. Open while CheckOut is
// null; checkout computes the derived fields exactly once, after which the
// row is immutable.
type Attendance struct {
	ID                   uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CustomerID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer             Customer            `gorm:"foreignKey:CustomerID" json:"-"`
	CustomerMembershipID *uuid.UUID          `gorm:"type:uuid;index" json:"customer_membership_id,omitempty"`
	CustomerMembership   *CustomerMembership `gorm:"foreignKey:CustomerMembershipID" json:"-"`
	CheckIn              time.Time           `gorm:"not null;index" json:"check_in"`
	CheckOut             *time.Time          `json:"check_out,omitempty"`
	DurationMinutes      *int                `json:"duration_minutes,omitempty"`
	PointsAwarded        *int                `json:"points_awarded,omitempty"`
	IsValid              bool                `gorm:"default:false" json:"is_valid"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
