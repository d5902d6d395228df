package routes

import (
	"time"

	"gymclub-backend/handlers"
	"gymclub-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	customerHandler := &handlers.CustomerHandler{DB: db}
	membershipHandler := &handlers.MembershipHandler{DB: db}
	customerMembershipHandler := &handlers.CustomerMembershipHandler{DB: db}
	attendanceHandler := &handlers.AttendanceHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db}
	redemptionHandler := &handlers.RedemptionHandler{DB: db}
	lifecycleHandler := &handlers.LifecycleHandler{DB: db}

	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/refresh", authHandler.RefreshTokenHandler)
		api.POST("/auth/forgot-password", authLimiter.Middleware(), authHandler.ForgotPassword)
		api.POST("/auth/reset-password", authLimiter.Middleware(), authHandler.ResetPassword)

		// Public catalog routes
		api.GET("/memberships", membershipHandler.GetMemberships)
		api.GET("/memberships/:id", membershipHandler.GetMembership)
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		// Profile
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.POST("/auth/change-password", authHandler.ChangePassword)
		protected.PUT("/customers/me", customerHandler.UpdateMyProfile)
		protected.DELETE("/customers/me", customerHandler.DeactivateMe)

		// Membership assignment
		protected.POST("/customer-memberships/assign/:membership_id", customerMembershipHandler.AssignMembership)
		protected.GET("/customer-memberships/me", customerMembershipHandler.GetMyMembership)

		// Attendance
		protected.POST("/attendances", attendanceHandler.CheckIn)
		protected.PATCH("/attendances/:id/checkout", attendanceHandler.CheckOut)
		protected.GET("/attendances/me", attendanceHandler.GetMyAttendances)
		protected.GET("/attendances/:id", attendanceHandler.GetAttendance)

		// Redemptions
		protected.POST("/redemptions", redemptionHandler.Redeem)
		protected.GET("/redemptions/me", redemptionHandler.GetMyRedemptions)
		protected.GET("/redemptions/:id", redemptionHandler.GetRedemption)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Customer management
		admin.GET("/customers", customerHandler.ListCustomers)
		admin.GET("/customers/:id", customerHandler.GetCustomer)
		admin.DELETE("/customers/:id", customerHandler.DeactivateCustomer)

		// Membership plan management
		admin.POST("/memberships", membershipHandler.CreateMembership)
		admin.PUT("/memberships/:id", membershipHandler.UpdateMembership)
		admin.DELETE("/memberships/:id", membershipHandler.DeleteMembership)

		// Assignment inspection and lifecycle
		admin.GET("/customer-memberships", customerMembershipHandler.ListCustomerMemberships)
		admin.GET("/customer-memberships/:customer_id", customerMembershipHandler.GetCustomerMembership)
		admin.POST("/customer-memberships/promote", lifecycleHandler.RunPromotion)

		// Attendance inspection
		admin.GET("/attendances", attendanceHandler.ListAttendances)

		// Product management
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.GET("/products", productHandler.GetProductsPaginated)

		// Redemption inspection
		admin.GET("/redemptions", redemptionHandler.ListRedemptions)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
