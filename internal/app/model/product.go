package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategorySofa     ProductCategory = "sofa"
	CategoryTable    ProductCategory = "table"
	CategoryChair    ProductCategory = "chair"
	CategoryBed      ProductCategory = "bed"
	CategoryStorage  ProductCategory = "storage"
	CategoryLighting ProductCategory = "lighting"
	CategoryDecor    ProductCategory = "decor"
)

// Valid reports whether the category is one the storefront knows.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategorySofa, CategoryTable, CategoryChair, CategoryBed,
		CategoryStorage, CategoryLighting, CategoryDecor:
		return true
	}
	return false
}

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Category      ProductCategory `gorm:"type:varchar(50);index" json:"category"`
	Price         int64           `gorm:"not null" json:"price"`           // list price, whole rupiah
	DiscountPrice *int64          `json:"discount_price,omitempty"`        // promo price, whole rupiah
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"` // informational only, never enforced here
	IsActive      bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Images    []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CartItems []CartItem     `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the price a new cart line snapshots: the discount price
// while a promo is running, the list price otherwise.
func (p *Product) EffectivePrice() int64 {
	if p.DiscountPrice != nil && *p.DiscountPrice < p.Price {
		return *p.DiscountPrice
	}
	return p.Price
}

// PrimaryImageURL returns the primary image, falling back to the first one.
func (p *Product) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

type ProductImage struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	URL       string         `gorm:"not null" json:"url"`
	IsPrimary bool           `gorm:"default:false" json:"is_primary"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
