package database

import (
	"fmt"
	"log"
	"os"

	"gymclub-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=gymclub port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Membership{},
		&models.CustomerMembership{},
		&models.Attendance{},
		&models.Product{},
		&models.Redemption{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
	); err != nil {
		return err
	}

	return createPartialIndexes(db)
}

// createPartialIndexes adds the uniqueness guarantees AutoMigrate cannot
// express: one active assignment per customer, and one open attendance per
// customer per UTC day. Concurrent writers that slip past the handler
// checks hit these constraints instead of corrupting state.
func createPartialIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_customer_memberships_one_active
		ON customer_memberships (customer_id)
		WHERE status = 'active';
	`).Error; err != nil {
		return fmt.Errorf("failed to create active-assignment index: %w", err)
	}

	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_attendances_one_open_per_day
		ON attendances (customer_id, ((check_in AT TIME ZONE 'UTC')::date))
		WHERE check_out IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("failed to create open-attendance index: %w", err)
	}

	return nil
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@gymclub.com"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}
