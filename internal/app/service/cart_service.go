package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/app/repository"
	"github.com/latifliving/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidCoupon    = errors.New("invalid coupon code")
	ErrMissingIdentity  = errors.New("cart owner identity missing")
)

// coupons the storefront currently honors; value is the flat discount in
// whole rupiah. Managed in code until the admin screens land.
var couponTable = map[string]int64{
	"HEMAT50":   50000,
	"HEMAT100":  100000,
	"LATIFBARU": 25000,
}

type CartService interface {
	// GetCart returns the identity's cart; ErrCartNotFound when none exists.
	// Lookup never creates a cart.
	GetCart(identity model.CartIdentity) (*model.Cart, error)

	// AddToCart creates a new line on the owner's cart (creating the cart on
	// first use), snapshotting the product's current effective price. Repeated
	// adds of the same product create independent lines.
	AddToCart(identity model.CartIdentity, productID uint, quantity int, options model.ItemOptions) (*model.CartItem, error)

	// UpdateItemQuantity sets the quantity, or deletes the line when the new
	// quantity is zero or negative. Returns the updated item, nil when deleted.
	UpdateItemQuantity(identity model.CartIdentity, itemID uint, quantity int) (*model.CartItem, error)

	RemoveItem(identity model.CartIdentity, itemID uint) error

	// ClearCart deletes all items and resets coupon and discount; the cart row
	// itself is kept. A missing cart is a no-op.
	ClearCart(identity model.CartIdentity) error

	SaveForLater(identity model.CartIdentity, itemID uint) error
	MoveToCart(identity model.CartIdentity, itemID uint) error

	ApplyCoupon(identity model.CartIdentity, code string) error

	// MergeGuestCart transfers the guest cart identified by guestSessionID into
	// the user's cart, atomically. A missing or empty guest cart is a no-op.
	MergeGuestCart(userID uint, guestSessionID string) error

	// PurgeStaleGuestCarts drops guest carts untouched for longer than ttl.
	PurgeStaleGuestCarts(ttl time.Duration) (int64, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		db:          db,
	}
}

func (s *cartService) GetCart(identity model.CartIdentity) (*model.Cart, error) {
	var (
		cart *model.Cart
		err  error
	)
	if identity.UserID != nil {
		cart, err = s.cartRepo.FindByUser(*identity.UserID)
	} else {
		if identity.SessionID == "" {
			return nil, ErrCartNotFound
		}
		cart, err = s.cartRepo.FindBySession(identity.SessionID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id":    identity.UserID,
			"session_id": identity.SessionID,
		})
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddToCart(identity model.CartIdentity, productID uint, quantity int, options model.ItemOptions) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    identity.UserID,
		"session_id": identity.SessionID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		logger.Warn("Cannot add to cart: invalid quantity", map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return nil, ErrInvalidQuantity
	}

	// An anonymous caller without a session token has nothing to own a cart
	// with; refusing here keeps "" from ever being bound as a session id.
	if identity.UserID == nil && identity.SessionID == "" {
		return nil, ErrMissingIdentity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	cart, err := s.cartRepo.FindOrCreateForIdentity(identity)
	if err != nil {
		logger.Error("Failed to resolve cart for identity", err, map[string]interface{}{
			"user_id":    identity.UserID,
			"session_id": identity.SessionID,
		})
		return nil, err
	}

	// A new line is created on every add; lines for the same product are not
	// collapsed here. Only the merge path deduplicates by product.
	item := &model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.EffectivePrice(),
		Options:   options,
	}

	if err := s.cartRepo.CreateItem(item); err != nil {
		return nil, err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_id":      cart.ID,
		"cart_item_id": item.ID,
		"unit_price":   item.UnitPrice,
	})
	return item, nil
}

// findOwnedItem loads an item and verifies the identity owns its cart.
// Foreign items are reported as not found, never as forbidden.
func (s *cartService) findOwnedItem(identity model.CartIdentity, itemID uint) (*model.CartItem, error) {
	item, err := s.cartRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return nil, err
	}

	if !item.Cart.BelongsTo(identity) {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"cart_item_id": itemID,
			"cart_id":      item.CartID,
			"user_id":      identity.UserID,
			"session_id":   identity.SessionID,
		})
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

func (s *cartService) UpdateItemQuantity(identity model.CartIdentity, itemID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	item, err := s.findOwnedItem(identity, itemID)
	if err != nil {
		return nil, err
	}

	// Zero or negative means remove, by policy. Valid input, not an error.
	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(item); err != nil {
			return nil, err
		}
		logger.Info("Cart item removed by quantity update", map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return nil, nil
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}

	logger.Info("Cart item quantity updated", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     quantity,
	})
	return item, nil
}

func (s *cartService) RemoveItem(identity model.CartIdentity, itemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"cart_item_id": itemID,
	})

	item, err := s.findOwnedItem(identity, itemID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.DeleteItem(item); err != nil {
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": item.ID,
	})
	return nil
}

func (s *cartService) ClearCart(identity model.CartIdentity) error {
	cart, err := s.GetCart(identity)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return nil
		}
		return err
	}

	logger.Info("Clearing cart", map[string]interface{}{
		"cart_id": cart.ID,
	})

	if err := s.cartRepo.DeleteItemsByCart(cart.ID); err != nil {
		return err
	}

	// The cart row survives a clear; only coupon state is reset.
	cart.CouponCode = nil
	cart.DiscountAmount = 0
	cart.Items = nil
	if err := s.cartRepo.UpdateCart(cart); err != nil {
		return err
	}

	logger.Info("Cart cleared", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

func (s *cartService) SaveForLater(identity model.CartIdentity, itemID uint) error {
	return s.setSavedForLater(identity, itemID, true)
}

func (s *cartService) MoveToCart(identity model.CartIdentity, itemID uint) error {
	return s.setSavedForLater(identity, itemID, false)
}

// setSavedForLater flips the partition flag only; quantity and price stay.
func (s *cartService) setSavedForLater(identity model.CartIdentity, itemID uint, saved bool) error {
	item, err := s.findOwnedItem(identity, itemID)
	if err != nil {
		return err
	}

	item.IsSavedForLater = saved
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return err
	}

	logger.Info("Cart item partition updated", map[string]interface{}{
		"cart_item_id":       item.ID,
		"is_saved_for_later": saved,
	})
	return nil
}

func (s *cartService) ApplyCoupon(identity model.CartIdentity, code string) error {
	cart, err := s.GetCart(identity)
	if err != nil {
		return err
	}

	discount, ok := couponTable[code]
	if !ok {
		logger.Warn("Unknown coupon code", map[string]interface{}{
			"cart_id": cart.ID,
			"code":    code,
		})
		return ErrInvalidCoupon
	}

	cart.CouponCode = &code
	cart.DiscountAmount = discount
	if err := s.cartRepo.UpdateCart(cart); err != nil {
		return err
	}

	logger.Info("Coupon applied to cart", map[string]interface{}{
		"cart_id":  cart.ID,
		"code":     code,
		"discount": discount,
	})
	return nil
}

func (s *cartService) MergeGuestCart(userID uint, guestSessionID string) error {
	if guestSessionID == "" {
		return nil
	}

	logger.Info("Merging guest cart into user cart", map[string]interface{}{
		"user_id":          userID,
		"guest_session_id": guestSessionID,
	})

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during cart merge, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var guestCart model.Cart
	err := tx.Where("session_id = ?", guestSessionID).
		Preload("Items").
		First(&guestCart).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to merge.
			logger.Debug("No guest cart to merge", map[string]interface{}{
				"guest_session_id": guestSessionID,
			})
			return nil
		}
		return err
	}

	var userCart model.Cart
	err = tx.Where("user_id = ?", userID).Preload("Items").First(&userCart).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return err
		}
		userCart = model.Cart{UserID: &userID}
		if err := tx.Create(&userCart).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	// Active destination lines by product; rows created during the merge join
	// the index so a second guest line for the same product increments too.
	destByProduct := make(map[uint]*model.CartItem)
	for i := range userCart.Items {
		if !userCart.Items[i].IsSavedForLater {
			destByProduct[userCart.Items[i].ProductID] = &userCart.Items[i]
		}
	}

	for _, guestItem := range guestCart.Items {
		if existing, ok := destByProduct[guestItem.ProductID]; ok {
			// Quantities add up; the destination line keeps its own unit price
			// and options. The guest line's metadata is discarded.
			existing.Quantity += guestItem.Quantity
			if err := tx.Model(&model.CartItem{}).
				Where("id = ?", existing.ID).
				Update("quantity", existing.Quantity).Error; err != nil {
				tx.Rollback()
				return err
			}
			continue
		}

		newItem := model.CartItem{
			CartID:    userCart.ID,
			ProductID: guestItem.ProductID,
			Quantity:  guestItem.Quantity,
			UnitPrice: guestItem.UnitPrice,
			Options:   guestItem.Options,
		}
		if err := tx.Create(&newItem).Error; err != nil {
			tx.Rollback()
			return err
		}
		destByProduct[newItem.ProductID] = &newItem
	}

	if err := tx.Where("cart_id = ?", guestCart.ID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&guestCart).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit cart merge", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Guest cart merged successfully", map[string]interface{}{
		"user_id":       userID,
		"guest_cart_id": guestCart.ID,
		"items_merged":  len(guestCart.Items),
	})
	return nil
}

func (s *cartService) PurgeStaleGuestCarts(ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)

	count, err := s.cartRepo.DeleteStaleGuestCarts(cutoff)
	if err != nil {
		logger.Error("Failed to purge stale guest carts", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, err
	}
	return count, nil
}
