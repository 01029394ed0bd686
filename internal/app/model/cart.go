package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// CartIdentity names the owner a cart operation acts for: an authenticated
// user, or an anonymous session token. Exactly one side is meaningful at a
// time; when UserID is set the session token is ignored.
type CartIdentity struct {
	UserID    *uint
	SessionID string
}

func (i CartIdentity) IsGuest() bool {
	return i.UserID == nil
}

// ItemOptions is the opaque variant-selection bag on a cart line (color,
// fabric, size...). Stored as JSON text; never interpreted by the cart logic.
type ItemOptions map[string]interface{}

func (o ItemOptions) Value() (driver.Value, error) {
	if len(o) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *ItemOptions) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return errors.New("unsupported type for ItemOptions")
	}
}

// Cart belongs to exactly one owner: a registered user (UserID) or an
// anonymous session (SessionID), never both.
type Cart struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserID         *uint          `gorm:"index" json:"user_id,omitempty"`
	SessionID      *string        `gorm:"index;type:varchar(64)" json:"session_id,omitempty"`
	CouponCode     *string        `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`
	DiscountAmount int64          `gorm:"not null;default:0" json:"discount_amount"`
	Notes          string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User  *User      `gorm:"foreignKey:UserID" json:"-"`
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// ActiveItems are the lines counted in subtotal/total/item count.
func (c *Cart) ActiveItems() []CartItem {
	var items []CartItem
	for _, item := range c.Items {
		if !item.IsSavedForLater {
			items = append(items, item)
		}
	}
	return items
}

// SavedItems are the lines parked for later.
func (c *Cart) SavedItems() []CartItem {
	var items []CartItem
	for _, item := range c.Items {
		if item.IsSavedForLater {
			items = append(items, item)
		}
	}
	return items
}

// Subtotal sums active line subtotals. Computed on read, never persisted.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, item := range c.ActiveItems() {
		sum += item.Subtotal()
	}
	return sum
}

// Total applies the discount, clamped so it never goes negative.
func (c *Cart) Total() int64 {
	total := c.Subtotal() - c.DiscountAmount
	if total < 0 {
		return 0
	}
	return total
}

func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.ActiveItems() {
		count += item.Quantity
	}
	return count
}

func (c *Cart) SavedItemCount() int {
	var count int
	for _, item := range c.SavedItems() {
		count += item.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// BelongsTo reports whether the given identity owns this cart.
func (c *Cart) BelongsTo(identity CartIdentity) bool {
	if identity.UserID != nil {
		return c.UserID != nil && *c.UserID == *identity.UserID
	}
	return c.SessionID != nil && identity.SessionID != "" && *c.SessionID == identity.SessionID
}

type CartItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	CartID          uint           `gorm:"not null;index" json:"cart_id"`
	ProductID       uint           `gorm:"not null;index" json:"product_id"`
	Quantity        int            `gorm:"not null;default:1" json:"quantity"`
	UnitPrice       int64          `gorm:"not null" json:"unit_price"` // snapshot taken at add time
	Options         ItemOptions    `gorm:"type:text" json:"options,omitempty"`
	IsSavedForLater bool           `gorm:"default:false" json:"is_saved_for_later"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (i *CartItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
