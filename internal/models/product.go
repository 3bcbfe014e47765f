package models

import (
	"time"
)

// ProductCategory represents the closed set of catalog categories
type ProductCategory string

const (
	ProductCategoryPrinters  ProductCategory = "3D Yazıcılar"
	ProductCategoryFilaments ProductCategory = "Filamentler"
	ProductCategoryPrints    ProductCategory = "3D Baskı Ürünler"
	ProductCategoryModels    ProductCategory = "3D Modeller"
)

// ValidProductCategory reports whether the given category is one of the
// known catalog categories.
func ValidProductCategory(c ProductCategory) bool {
	switch c {
	case ProductCategoryPrinters, ProductCategoryFilaments, ProductCategoryPrints, ProductCategoryModels:
		return true
	}
	return false
}

// Product represents a catalog product
type Product struct {
	ID           string          `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Category     ProductCategory `json:"category" db:"category"`
	Price        float64         `json:"price" db:"price"`
	OldPrice     *float64        `json:"oldPrice,omitempty" db:"old_price"`
	Image        string          `json:"image" db:"image"`
	CountInStock int             `json:"countInStock" db:"count_in_stock"`
	Rating       float64         `json:"rating" db:"rating"`
	ReviewCount  int             `json:"reviewCount" db:"review_count"`
	IsNew        bool            `json:"isNew" db:"is_new"`
	OnSale       bool            `json:"onSale" db:"on_sale"`
	Featured     bool            `json:"featured" db:"featured"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`

	// Joined data (populated when needed)
	Specifications []Specification `json:"specifications,omitempty"`
	Reviews        []Review        `json:"reviews,omitempty"`
}

// Specification is a single name/value spec line on a product
type Specification struct {
	Name  string `json:"name" db:"name"`
	Value string `json:"value" db:"value"`
}

// Review represents a customer review on a product
type Review struct {
	ID        string    `json:"id" db:"id"`
	ProductID string    `json:"-" db:"product_id"`
	UserID    string    `json:"user" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ProductCreate represents data for creating a new product
type ProductCreate struct {
	Name           string          `json:"name" validate:"required,max=200"`
	Description    string          `json:"description" validate:"required"`
	Category       ProductCategory `json:"category" validate:"required"`
	Price          float64         `json:"price" validate:"min=0"`
	OldPrice       *float64        `json:"oldPrice,omitempty"`
	Image          string          `json:"image" validate:"required"`
	CountInStock   int             `json:"countInStock" validate:"min=0"`
	Featured       bool            `json:"featured"`
	Specifications []Specification `json:"specifications,omitempty"`
}

// ProductUpdate represents a partial product update.
// A nil field means "leave unchanged", so a price or stock of zero is
// still settable.
type ProductUpdate struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Category       *ProductCategory `json:"category,omitempty"`
	Price          *float64         `json:"price,omitempty"`
	OldPrice       *float64         `json:"oldPrice,omitempty"`
	Image          *string          `json:"image,omitempty"`
	CountInStock   *int             `json:"countInStock,omitempty"`
	IsNew          *bool            `json:"isNew,omitempty"`
	OnSale         *bool            `json:"onSale,omitempty"`
	Featured       *bool            `json:"featured,omitempty"`
	Specifications []Specification  `json:"specifications,omitempty"`
}

// ReviewCreate represents data for submitting a product review
type ReviewCreate struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

// ProductPage is the paginated product listing response
type ProductPage struct {
	Products      []*Product `json:"products"`
	Page          int        `json:"page"`
	Pages         int        `json:"pages"`
	TotalProducts int        `json:"totalProducts"`
}

// IsInStock checks if the product has sufficient stock
func (p *Product) IsInStock(quantity int) bool {
	return p.CountInStock >= quantity
}
