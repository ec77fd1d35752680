package models

import "time"

// Category groups products. Categories are created by seed data or an
// administrative process; the API only reads them.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(255);not null"`
}

// Product is a catalog item. Deleting a category cascades to its products.
type Product struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null;index"`
	Price      float64   `json:"price" gorm:"type:decimal(10,2);not null;index"`
	CategoryID uint      `json:"category_id" gorm:"not null;index"`
	Category   *Category `json:"category" gorm:"constraint:OnDelete:CASCADE"`
	InStock    bool      `json:"in_stock" gorm:"not null;default:false;index"`
	Rating     float64   `json:"rating" gorm:"not null;default:0;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`
}
