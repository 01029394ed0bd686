package repository

import (
	"time"

	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	CreateCart(cart *model.Cart) error
	FindByUser(userID uint) (*model.Cart, error)
	FindBySession(sessionID string) (*model.Cart, error)
	FindOrCreateForIdentity(identity model.CartIdentity) (*model.Cart, error)
	UpdateCart(cart *model.Cart) error
	DeleteCart(cartID uint) error

	CreateItem(item *model.CartItem) error
	FindItemByID(id uint) (*model.CartItem, error)
	UpdateItem(item *model.CartItem) error
	DeleteItem(item *model.CartItem) error
	DeleteItemsByCart(cartID uint) error

	DeleteStaleGuestCarts(olderThan time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) CreateCart(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id":    cart.UserID,
		"session_id": cart.SessionID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id":    cart.UserID,
			"session_id": cart.SessionID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindByUser(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Images").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindBySession(sessionID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("session_id = ?", sessionID).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Images").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindOrCreateForIdentity returns the owner's cart, creating an empty one when
// none exists yet. Creation only ever happens here, on the add-to-cart path.
func (r *cartRepository) FindOrCreateForIdentity(identity model.CartIdentity) (*model.Cart, error) {
	var (
		cart *model.Cart
		err  error
	)
	if identity.UserID != nil {
		cart, err = r.FindByUser(*identity.UserID)
	} else {
		cart, err = r.FindBySession(identity.SessionID)
	}
	if err == nil {
		return cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	newCart := &model.Cart{}
	if identity.UserID != nil {
		newCart.UserID = identity.UserID
	} else {
		sessionID := identity.SessionID
		newCart.SessionID = &sessionID
	}

	if err := r.CreateCart(newCart); err != nil {
		return nil, err
	}

	logger.Debug("Cart created for identity", map[string]interface{}{
		"cart_id":    newCart.ID,
		"user_id":    newCart.UserID,
		"session_id": newCart.SessionID,
	})
	return newCart, nil
}

func (r *cartRepository) UpdateCart(cart *model.Cart) error {
	if err := r.db.Save(cart).Error; err != nil {
		logger.Error("Failed to update cart in database", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return err
	}
	return nil
}

// DeleteCart removes the cart and its items. Items are deleted explicitly so
// behavior does not depend on the driver honoring FK cascade.
func (r *cartRepository) DeleteCart(cartID uint) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	if err := r.db.Delete(&model.Cart{}, cartID).Error; err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return r.touchCart(item.CartID)
}

// touchCart bumps the cart row's updated_at so item activity counts as cart
// activity. The stale-guest purge keys off carts.updated_at alone; without
// this, a long-lived guest cart being actively modified would still be purged.
func (r *cartRepository) touchCart(cartID uint) error {
	return r.db.Model(&model.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("updated_at", time.Now()).Error
}

func (r *cartRepository) FindItemByID(id uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Cart").Preload("Product").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}
	return r.touchCart(item.CartID)
}

func (r *cartRepository) DeleteItem(item *model.CartItem) error {
	if err := r.db.Delete(&model.CartItem{}, item.ID).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}
	return r.touchCart(item.CartID)
}

func (r *cartRepository) DeleteItemsByCart(cartID uint) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

// DeleteStaleGuestCarts removes guest carts untouched since olderThan together
// with their items. User carts are never touched.
func (r *cartRepository) DeleteStaleGuestCarts(olderThan time.Time) (int64, error) {
	var staleIDs []uint
	err := r.db.Model(&model.Cart{}).
		Where("user_id IS NULL AND updated_at < ?", olderThan).
		Pluck("id", &staleIDs).Error
	if err != nil {
		return 0, err
	}
	if len(staleIDs) == 0 {
		return 0, nil
	}

	if err := r.db.Where("cart_id IN ?", staleIDs).Delete(&model.CartItem{}).Error; err != nil {
		return 0, err
	}
	result := r.db.Delete(&model.Cart{}, staleIDs)
	if result.Error != nil {
		return 0, result.Error
	}

	logger.Info("Stale guest carts deleted", map[string]interface{}{
		"count":      result.RowsAffected,
		"older_than": olderThan,
	})
	return result.RowsAffected, nil
}
