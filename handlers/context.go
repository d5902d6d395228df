package handlers

import (
	"net/http"

	"gymclub-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentCustomer resolves the authenticated principal to their customer
// profile. Writes the error response and returns ok=false when the caller
// is not a (still-active) customer.
func currentCustomer(c *gin.Context, db *gorm.DB) (models.Customer, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Customer{}, false
	}

	var customer models.Customer
	if err := db.Where("user_id = ?", userID).First(&customer).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No customer profile for this account"})
		return models.Customer{}, false
	}

	if customer.Status != models.StatusActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Customer account is deactivated"})
		return models.Customer{}, false
	}

	return customer, true
}

func isAdmin(c *gin.Context) bool {
	role, exists := c.Get("user_role")
	return exists && role == "admin"
}
