package handlers

import (
	"math"
	"net/http"
	"strconv"

	"gymclub-backend/models"
	"gymclub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RedemptionHandler struct {
	DB *gorm.DB
}

// Redeem exchanges points for a shop product. The check order is part of
// the API contract: availability, then type, then quantity, then stock,
// then balance. Debit, stock decrement and receipt are committed together
// or not at all.
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	customer, ok := currentCustomer(c, h.DB)
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
		return
	}

	tx := h.DB.Begin()

	var product models.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", productID).
		First(&product).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if product.Status != models.StatusActive {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Product not available"})
		return
	}

	if product.ProductType != models.ProductTypePoints {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Product is not redeemable for points"})
		return
	}

	if req.Quantity <= 0 {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be greater than 0"})
		return
	}

	if product.Stock < req.Quantity {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
		return
	}

	cost := product.Price * req.Quantity

	// Re-read the balance under lock; the profile loaded during auth may
	// be stale by now.
	var locked models.Customer
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", customer.ID).
		First(&locked).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customer"})
		return
	}

	if locked.PointsBalance < cost {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient points"})
		return
	}

	locked.PointsBalance -= cost
	product.Stock -= req.Quantity

	redemption := models.Redemption{
		ID:                  uuid.New(),
		CustomerID:          locked.ID,
		ProductID:           product.ID,
		PointsSpent:         cost,
		Quantity:            req.Quantity,
		ProductNameSnapshot: product.Name,
	}

	if err := tx.Save(&locked).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to debit points"})
		return
	}
	if err := tx.Save(&product).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}
	if err := tx.Create(&redemption).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create redemption"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create redemption"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":                    redemption.ID,
		"product_id":            redemption.ProductID,
		"points_spent":          redemption.PointsSpent,
		"quantity":              redemption.Quantity,
		"product_name_snapshot": redemption.ProductNameSnapshot,
		"created_at":            redemption.CreatedAt,
		"points_balance":        locked.PointsBalance,
	})
}

// GetMyRedemptions returns the caller's receipts, newest first.
func (h *RedemptionHandler) GetMyRedemptions(c *gin.Context) {
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
	h.DB.Model(&models.Redemption{}).Where("customer_id = ?", customer.ID).Count(&total)

	var redemptions []models.Redemption
	if err := h.DB.Where("customer_id = ?", customer.ID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&redemptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch redemptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redemptions": redemptions,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"pages":       int(math.Ceil(float64(total) / float64(limit))),
	})
}

// ListRedemptions is the admin listing, optionally filtered by customer.
func (h *RedemptionHandler) ListRedemptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.Redemption{})
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var total int64
	query.Count(&total)

	var redemptions []models.Redemption
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&redemptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch redemptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redemptions": redemptions,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"pages":       int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetRedemption returns one receipt; customers see only their own.
func (h *RedemptionHandler) GetRedemption(c *gin.Context) {
	id := c.Param("id")

	var redemption models.Redemption
	if err := h.DB.Where("id = ?", id).First(&redemption).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Redemption not found"})
		return
	}

	if !isAdmin(c) {
		customer, ok := currentCustomer(c, h.DB)
		if !ok {
			return
		}
		if redemption.CustomerID != customer.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Redemption belongs to another customer"})
			return
		}
	}

	c.JSON(http.StatusOK, redemption)
}
