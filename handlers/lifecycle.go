package handlers

import (
	"net/http"
	"time"

	"gymclub-backend/models"
	"gymclub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PromoteScheduledMemberships advances the assignment state machine for
// every customer: active rows past their end date lapse to inactive, then
// pending rows whose start date has arrived become active. Expiry runs
// first so a promoted row never collides with the one-active-per-customer
// constraint. Runs daily from the cron entry in main and on demand from
// the admin endpoint.
func PromoteScheduledMemberships(db *gorm.DB, today time.Time) (expired int64, promoted int64, err error) {
	day := utils.StartOfUTCDay(today)

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CustomerMembership{}).
			Where("status = ? AND end_date IS NOT NULL AND end_date < ?", models.AssignmentActive, day).
			Update("status", models.AssignmentInactive)
		if res.Error != nil {
			return res.Error
		}
		expired = res.RowsAffected

		var due []models.CustomerMembership
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND start_date <= ?", models.AssignmentPending, day).
			Order("start_date ASC").
			Find(&due).Error; err != nil {
			return err
		}

		for _, assignment := range due {
			// A still-running active assignment (open-ended or ending later)
			// blocks promotion; the pending row waits for the next sweep.
			var blocking int64
			if err := tx.Model(&models.CustomerMembership{}).
				Where("customer_id = ? AND status = ?", assignment.CustomerID, models.AssignmentActive).
				Count(&blocking).Error; err != nil {
				return err
			}
			if blocking > 0 {
				continue
			}

			if err := tx.Model(&models.CustomerMembership{}).
				Where("id = ?", assignment.ID).
				Update("status", models.AssignmentActive).Error; err != nil {
				return err
			}
			promoted++
		}

		return nil
	})

	if err != nil {
		return 0, 0, err
	}
	return expired, promoted, nil
}

type LifecycleHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (h *LifecycleHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// RunPromotion triggers the membership sweep on demand (admin only).
func (h *LifecycleHandler) RunPromotion(c *gin.Context) {
	expired, promoted, err := PromoteScheduledMemberships(h.DB, h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Membership sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expired":  expired,
		"promoted": promoted,
	})
}
