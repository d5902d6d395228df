package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "active"
	AssignmentPending  AssignmentStatus = "pending"
	AssignmentInactive AssignmentStatus = "inactive"
)

// CustomerMembership is the time-boxed binding of a customer to a plan.
// Invariant: at most one active row per customer (enforced by a partial
// unique index, see database.Migrate). A pending row may coexist and is
// promoted by the lifecycle sweep once its start date arrives.
type CustomerMembership struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CustomerID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer     Customer         `gorm:"foreignKey:CustomerID" json:"-"`
	MembershipID uuid.UUID        `gorm:"type:uuid;not null;index" json:"membership_id"`
	Membership   Membership       `gorm:"foreignKey:MembershipID" json:"membership,omitempty"`
	Status       AssignmentStatus `gorm:"default:active" json:"status"`
	StartDate    time.Time        `gorm:"not null" json:"start_date"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (cm *CustomerMembership) BeforeCreate(tx *gorm.DB) error {
	if cm.ID == uuid.Nil {
		cm.ID = uuid.New()
	}
	return nil
}
