package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Label         string         `gorm:"size:100;not null" json:"label"` // e.g. "Rumah", "Kantor"
	RecipientName string         `gorm:"size:100;not null" json:"recipient_name"`
	Phone         string         `gorm:"size:30;not null" json:"phone"`
	Address       string         `gorm:"type:text;not null" json:"address"`
	City          string         `gorm:"size:100;not null" json:"city"`
	Province      string         `gorm:"size:100;not null" json:"province"`
	PostalCode    string         `gorm:"size:10" json:"postal_code"`
	IsDefault     bool           `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}

// FullAddress joins the address parts for display.
func (a *Address) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Address, a.City, a.Province, a.PostalCode)
}
