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

type AttendanceHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (h *AttendanceHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// CheckIn opens today's attendance for the authenticated customer.
// Requires an active membership, no other open attendance today, and a
// free slot under the plan's weekly cap.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	customer, ok := currentCustomer(c, h.DB)
	if !ok {
		return
	}

	now := h.now()
	startOfDay := utils.StartOfUTCDay(now)
	startOfWeek := utils.StartOfISOWeek(now)

	tx := h.DB.Begin()

	var assignment models.CustomerMembership
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Membership").
		Where("customer_id = ? AND status = ?", customer.ID, models.AssignmentActive).
		First(&assignment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "No active membership"})
		return
	}

	var open models.Attendance
	if err := tx.Where(
		"customer_id = ? AND check_in >= ? AND check_in < ? AND check_out IS NULL",
		customer.ID, startOfDay, startOfDay.AddDate(0, 0, 1),
	).First(&open).Error; err == nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Customer already has an open attendance today"})
		return
	}

	// Weekly cap counts every check-in in the Monday-to-Monday window,
	// open or closed.
	var weekCount int64
	if err := tx.Model(&models.Attendance{}).Where(
		"customer_id = ? AND check_in >= ? AND check_in < ?",
		customer.ID, startOfWeek, startOfWeek.AddDate(0, 0, 7),
	).Count(&weekCount).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check weekly attendance"})
		return
	}
	if weekCount >= int64(assignment.Membership.MaxDaysPerWeek) {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Weekly attendance limit reached"})
		return
	}

	attendance := models.Attendance{
		ID:                   uuid.New(),
		CustomerID:           customer.ID,
		CustomerMembershipID: &assignment.ID,
		CheckIn:              now,
		IsValid:              false,
	}

	if err := tx.Create(&attendance).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create attendance"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create attendance"})
		return
	}

	c.JSON(http.StatusCreated, attendance)
}

// CheckOut finalizes an open attendance: duration and validity are derived
// once, points are credited, and the row becomes immutable.
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	customer, ok := currentCustomer(c, h.DB)
	if !ok {
		return
	}

	attendanceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendance id"})
		return
	}

	now := h.now()

	tx := h.DB.Begin()

	var attendance models.Attendance
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", attendanceID).
		First(&attendance).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Attendance not found"})
		return
	}

	if attendance.CustomerID != customer.ID {
		tx.Rollback()
		c.JSON(http.StatusForbidden, gin.H{"error": "Attendance belongs to another customer"})
		return
	}

	if attendance.CheckOut != nil {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Attendance already finalized"})
		return
	}

	checkIn := utils.NormalizeUTC(attendance.CheckIn)
	checkOut := utils.NormalizeUTC(now)

	if !utils.SameUTCDay(checkIn, checkOut) {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot finalize attendance from a previous day"})
		return
	}

	duration := int(checkOut.Sub(checkIn).Seconds() / 60)
	valid := duration >= models.MinValidMinutes && duration < models.MaxValidMinutes

	points := 0
	if valid && attendance.CustomerMembershipID != nil {
		var assignment models.CustomerMembership
		if err := tx.Preload("Membership").
			Where("id = ?", attendance.CustomerMembershipID).
			First(&assignment).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve membership"})
			return
		}

		points = int(float64(models.BaseVisitPoints) * assignment.Membership.PointsMultiplier)

		var locked models.Customer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", customer.ID).
			First(&locked).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit points"})
			return
		}
		locked.PointsBalance += points
		if err := tx.Save(&locked).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit points"})
			return
		}
	}

	attendance.CheckOut = &checkOut
	attendance.DurationMinutes = &duration
	attendance.PointsAwarded = &points
	attendance.IsValid = valid

	if err := tx.Save(&attendance).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize attendance"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize attendance"})
		return
	}

	c.JSON(http.StatusOK, attendance)
}

// GetMyAttendances returns the caller's attendance history, newest first.
func (h *AttendanceHandler) GetMyAttendances(c *gin.Context) {
	customer, ok := currentCustomer(c, h.DB)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	h.DB.Model(&models.Attendance{}).Where("customer_id = ?", customer.ID).Count(&total)

	var attendances []models.Attendance
	if err := h.DB.Where("customer_id = ?", customer.ID).
		Order("check_in DESC").Offset(offset).Limit(limit).
		Find(&attendances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendances"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendances": attendances,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"pages":       int(math.Ceil(float64(total) / float64(limit))),
	})
}

// ListAttendances is the admin listing, optionally filtered by customer.
func (h *AttendanceHandler) ListAttendances(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.Attendance{})
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var total int64
	query.Count(&total)

	var attendances []models.Attendance
	if err := query.Order("check_in DESC").Offset(offset).Limit(limit).Find(&attendances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendances"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendances": attendances,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"pages":       int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetAttendance returns one attendance; customers see only their own.
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	id := c.Param("id")

	var attendance models.Attendance
	if err := h.DB.Where("id = ?", id).First(&attendance).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attendance not found"})
		return
	}

	if !isAdmin(c) {
		customer, ok := currentCustomer(c, h.DB)
		if !ok {
			return
		}
		if attendance.CustomerID != customer.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Attendance belongs to another customer"})
			return
		}
	}

	c.JSON(http.StatusOK, attendance)
}
