package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"gymclub-backend/models"
	"gymclub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CustomerHandler struct {
	DB *gorm.DB
}

// ListCustomers returns a paginated customer list for admins. Inactive
// (soft-deleted) customers are hidden unless include_inactive is set.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.Customer{})

	if c.Query("include_inactive") != "true" {
		query = query.Where("status = ?", models.StatusActive)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var customers []models.Customer
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"total":     total,
		"page":      page,
		"limit":     limit,
		"pages":     int(math.Ceil(float64(total) / float64(limit))),
	})
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id := c.Param("id")

	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateMyProfile lets the authenticated customer edit their own profile.
func (h *CustomerHandler) UpdateMyProfile(c *gin.Context) {
	customer, ok := currentCustomer(c, h.DB)
	if !ok {
		return
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		BirthDate *string `json:"birth_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.BirthDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "birth_date must be in YYYY-MM-DD format"})
			return
		}
		customer.BirthDate = &parsed
	}

	if err := h.DB.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeactivateMe soft-deletes the caller's customer account. The row is
// never removed; history (attendances, redemptions) stays intact.
func (h *CustomerHandler) DeactivateMe(c *gin.Context) {
	customer, ok := currentCustomer(c, h.DB)
	if !ok {
		return
	}

	if err := h.DB.Model(&customer).Update("status", models.StatusInactive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
}

// DeactivateCustomer is the admin variant of DeactivateMe.
func (h *CustomerHandler) DeactivateCustomer(c *gin.Context) {
	id := c.Param("id")

	var customer models.Customer
	if err := h.DB.Where("id = ?", id).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	if err := h.DB.Model(&customer).Update("status", models.StatusInactive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deactivated"})
}
