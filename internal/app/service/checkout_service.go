package service

import (
	"errors"

	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/app/repository"
	"github.com/latifliving/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart                 = errors.New("cart is empty")
	ErrInvalidPaymentMethod      = errors.New("invalid payment method")
	ErrOrderPlacementUnavailable = errors.New("order placement service unavailable")
)

// PaymentMethod is a display label only; no gateway integration lives here.
type PaymentMethod struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

// PaymentMethods the storefront offers at checkout.
var PaymentMethods = []PaymentMethod{
	{Value: "bank_transfer", Name: "Transfer Bank"},
	{Value: "credit_card", Name: "Kartu Kredit/Debit"},
	{Value: "e_wallet", Name: "E-Wallet"},
	{Value: "cod", Name: "COD (Bayar di Tempat)"},
}

// CheckoutSummary is a read-only projection for the checkout page. Assembling
// it never mutates cart state.
type CheckoutSummary struct {
	Cart           *model.Cart
	Addresses      []model.Address
	PaymentMethods []PaymentMethod
}

// OrderPlacer turns a cart snapshot plus shipping and payment choices into an
// order. Order creation itself lives outside this service.
type OrderPlacer interface {
	PlaceOrder(cart *model.Cart, address *model.Address, paymentMethod string) (orderID string, err error)
}

type CheckoutService interface {
	GetSummary(userID uint) (*CheckoutSummary, error)
	PlaceOrder(userID, addressID uint, paymentMethod string) (string, error)
}

type checkoutService struct {
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	orderPlacer OrderPlacer
}

func NewCheckoutService(
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	orderPlacer ...OrderPlacer,
) CheckoutService {
	var placer OrderPlacer
	if len(orderPlacer) > 0 {
		placer = orderPlacer[0]
	}
	return &checkoutService{
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		orderPlacer: placer,
	}
}

func (s *checkoutService) GetSummary(userID uint) (*CheckoutSummary, error) {
	logger.Debug("Assembling checkout summary", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to fetch cart for checkout", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
		// No cart yet; the summary renders as empty.
		cart = &model.Cart{UserID: &userID}
	}

	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch addresses for checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return &CheckoutSummary{
		Cart:           cart,
		Addresses:      addresses,
		PaymentMethods: PaymentMethods,
	}, nil
}

func (s *checkoutService) PlaceOrder(userID, addressID uint, paymentMethod string) (string, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id":        userID,
		"address_id":     addressID,
		"payment_method": paymentMethod,
	})

	if !validPaymentMethod(paymentMethod) {
		return "", ErrInvalidPaymentMethod
	}

	cart, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrEmptyCart
		}
		return "", err
	}
	if len(cart.ActiveItems()) == 0 {
		return "", ErrEmptyCart
	}

	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAddressNotFound
		}
		return "", err
	}
	if address.UserID != userID {
		logger.Warn("Checkout address ownership mismatch", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"owner_id":   address.UserID,
		})
		return "", ErrAddressNotFound
	}

	if s.orderPlacer == nil {
		return "", ErrOrderPlacementUnavailable
	}

	orderID, err := s.orderPlacer.PlaceOrder(cart, address, paymentMethod)
	if err != nil {
		logger.Error("Order placement failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return "", err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})
	return orderID, nil
}

func validPaymentMethod(value string) bool {
	for _, method := range PaymentMethods {
		if method.Value == value {
			return true
		}
	}
	return false
}
