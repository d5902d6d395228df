package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"gymclub-backend/models"
	"gymclub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerMembershipHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (h *CustomerMembershipHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// AssignMembership binds the authenticated customer to a plan.
//
// With no current active assignment the new one starts today and runs to
// the first day of next month. With one, the current assignment is cut off
// at the end of the current month and the new one is scheduled as pending
// from the first of next month; the lifecycle sweep activates it.
func (h *CustomerMembershipHandler) AssignMembership(c *gin.Context) {
	customer, ok := currentCustomer(c, h.DB)
	if !ok {
		return
	}

	membershipID, err := uuid.Parse(c.Param("membership_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership id"})
		return
	}

	today := utils.StartOfUTCDay(h.now())
	lastDay, firstOfNext := utils.MonthBounds(today)

	tx := h.DB.Begin()

	var plan models.Membership
	if err := tx.Where("id = ? AND status = ?", membershipID, models.StatusActive).First(&plan).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership plan not found"})
		return
	}

	// Lock the current active assignment so two concurrent assigns cannot
	// both schedule a successor.
	var current models.CustomerMembership
	hasActive := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND status = ?", customer.ID, models.AssignmentActive).
		First(&current).Error == nil

	if hasActive && current.MembershipID == membershipID {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Customer already has this active membership"})
		return
	}

	var assignment models.CustomerMembership
	if hasActive {
		// Let the current assignment lapse at the end of this month and
		// schedule the new plan to start when it does.
		current.EndDate = &lastDay
		if err := tx.Save(&current).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update current membership"})
			return
		}

		assignment = models.CustomerMembership{
			ID:           uuid.New(),
			CustomerID:   customer.ID,
			MembershipID: membershipID,
			Status:       models.AssignmentPending,
			StartDate:    firstOfNext,
		}
	} else {
		assignment = models.CustomerMembership{
			ID:           uuid.New(),
			CustomerID:   customer.ID,
			MembershipID: membershipID,
			Status:       models.AssignmentActive,
			StartDate:    today,
			EndDate:      &firstOfNext,
		}
	}

	if err := tx.Create(&assignment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign membership"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign membership"})
		return
	}

	assignment.Membership = plan
	c.JSON(http.StatusCreated, assignment)
}

// parseAssignmentStatus validates the status query parameter; the empty
// string defaults to active.
func parseAssignmentStatus(raw string) (models.AssignmentStatus, bool) {
	switch models.AssignmentStatus(raw) {
	case "":
		return models.AssignmentActive, true
	case models.AssignmentActive, models.AssignmentPending, models.AssignmentInactive:
		return models.AssignmentStatus(raw), true
	}
	return "", false
}

// GetMyMembership returns the caller's assignment with the requested
// status. Having none is a normal outcome, reported as 404.
func (h *CustomerMembershipHandler) GetMyMembership(c *gin.Context) {
	customer, ok := currentCustomer(c, h.DB)
	if !ok {
		return
	}

	status, ok := parseAssignmentStatus(c.Query("status"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: active, pending, inactive"})
		return
	}

	var assignment models.CustomerMembership
	if err := h.DB.Preload("Membership").
		Where("customer_id = ? AND status = ?", customer.ID, status).
		Order("start_date DESC").
		First(&assignment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer has no " + string(status) + " membership"})
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// ListCustomerMemberships is the admin listing across all customers.
func (h *CustomerMembershipHandler) ListCustomerMemberships(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.CustomerMembership{})

	if c.Query("include_inactive") != "true" {
		query = query.Where("status = ?", models.AssignmentActive)
	}

	var total int64
	query.Count(&total)

	var assignments []models.CustomerMembership
	if err := query.Preload("Membership").Order("created_at DESC").Offset(offset).Limit(limit).Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer memberships"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer_memberships": assignments,
		"total":                total,
		"page":                 page,
		"limit":                limit,
		"pages":                int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetCustomerMembership is the admin lookup for one customer's assignment.
func (h *CustomerMembershipHandler) GetCustomerMembership(c *gin.Context) {
	customerID := c.Param("customer_id")

	var customer models.Customer
	if err := h.DB.Where("id = ?", customerID).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	status, ok := parseAssignmentStatus(c.Query("status"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: active, pending, inactive"})
		return
	}

	var assignment models.CustomerMembership
	if err := h.DB.Preload("Membership").
		Where("customer_id = ? AND status = ?", customer.ID, status).
		Order("start_date DESC").
		First(&assignment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer has no " + string(status) + " membership"})
		return
	}

	c.JSON(http.StatusOK, assignment)
}
