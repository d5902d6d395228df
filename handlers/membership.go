package handlers

import (
	"net/http"

	"gymclub-backend/models"
	"gymclub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipHandler struct {
	DB *gorm.DB
}

func (h *MembershipHandler) CreateMembership(c *gin.Context) {
	var req struct {
		Name             string  `json:"name" binding:"required"`
		MaxDaysPerWeek   int     `json:"max_days_per_week" binding:"required"`
		PointsMultiplier float64 `json:"points_multiplier" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.PointsMultiplier < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "points_multiplier must be at least 1"})
		return
	}
	if req.MaxDaysPerWeek < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_days_per_week must be at least 1"})
		return
	}

	membership := models.Membership{
		ID:               uuid.New(),
		Name:             req.Name,
		MaxDaysPerWeek:   req.MaxDaysPerWeek,
		PointsMultiplier: req.PointsMultiplier,
		Status:           models.StatusActive,
	}

	if err := h.DB.Create(&membership).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A membership plan with this name already exists"})
		return
	}

	c.JSON(http.StatusCreated, membership)
}

// GetMemberships lists plans. Inactive plans are visible only to admins
// asking for them.
func (h *MembershipHandler) GetMemberships(c *gin.Context) {
	query := h.DB.Model(&models.Membership{})

	if !(isAdmin(c) && c.Query("include_inactive") == "true") {
		query = query.Where("status = ?", models.StatusActive)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var memberships []models.Membership
	if err := query.Order("created_at ASC").Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch membership plans"})
		return
	}

	c.JSON(http.StatusOK, memberships)
}

func (h *MembershipHandler) GetMembership(c *gin.Context) {
	id := c.Param("id")

	var membership models.Membership
	if err := h.DB.Where("id = ?", id).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership plan not found"})
		return
	}

	// Soft-deleted plans stay visible to admins only.
	if membership.Status != models.StatusActive && !isAdmin(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership plan not found"})
		return
	}

	c.JSON(http.StatusOK, membership)
}

// UpdateMembership edits a plan's rules. Edits apply prospectively: the
// multiplier is read again at every checkout.
func (h *MembershipHandler) UpdateMembership(c *gin.Context) {
	id := c.Param("id")

	var membership models.Membership
	if err := h.DB.Where("id = ?", id).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership plan not found"})
		return
	}

	var req struct {
		Name             *string  `json:"name"`
		MaxDaysPerWeek   *int     `json:"max_days_per_week"`
		PointsMultiplier *float64 `json:"points_multiplier"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.PointsMultiplier != nil && *req.PointsMultiplier < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "points_multiplier must be at least 1"})
		return
	}
	if req.MaxDaysPerWeek != nil && *req.MaxDaysPerWeek < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_days_per_week must be at least 1"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.MaxDaysPerWeek != nil {
		updates["max_days_per_week"] = *req.MaxDaysPerWeek
	}
	if req.PointsMultiplier != nil {
		updates["points_multiplier"] = *req.PointsMultiplier
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&membership).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update membership plan"})
			return
		}
	}

	h.DB.Where("id = ?", id).First(&membership)
	c.JSON(http.StatusOK, membership)
}

// DeleteMembership soft-deletes a plan. Existing assignments keep pointing
// at it; it just stops being offered.
func (h *MembershipHandler) DeleteMembership(c *gin.Context) {
	id := c.Param("id")

	var membership models.Membership
	if err := h.DB.Where("id = ?", id).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership plan not found"})
		return
	}

	if err := h.DB.Model(&membership).Update("status", models.StatusInactive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete membership plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership plan deactivated"})
}
