package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductType string

const (
	ProductTypeMoney  ProductType = "money"
	ProductTypePoints ProductType = "points"
)

// Product is a shop catalog item. Only active, points-type products with
// stock can be redeemed; prices on points products are denominated in
// loyalty points.
type Product struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string      `gorm:"uniqueIndex;not null" json:"name"`
	Description string      `json:"description"`
	ProductType ProductType `gorm:"not null" json:"product_type"`
	Price       int         `gorm:"not null" json:"price"`
	Stock       int         `gorm:"default:0" json:"stock"`
	Status      Status      `gorm:"default:active" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
