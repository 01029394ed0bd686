package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/latifliving/storefront-backend/internal/app/service"
	apperrors "github.com/latifliving/storefront-backend/internal/errors"
	"github.com/latifliving/storefront-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type PlaceOrderRequest struct {
	AddressID     uint   `json:"address_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// GetSummary returns the checkout page projection: cart totals, saved
// addresses and the available payment methods
// GET /api/v1/checkout
func (ctrl *CheckoutController) GetSummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	summary, err := ctrl.checkoutService.GetSummary(userID)
	if err != nil {
		log.Error("Failed to build checkout summary", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "checkout summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":            toCartResponse(summary.Cart),
		"addresses":       summary.Addresses,
		"payment_methods": summary.PaymentMethods,
	})
}

// PlaceOrder hands the cart to the order pipeline
// POST /api/v1/checkout
func (ctrl *CheckoutController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data pesanan tidak valid")
		return
	}

	orderID, err := ctrl.checkoutService.PlaceOrder(userID, req.AddressID, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Metode pembayaran tidak valid")
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CheckoutEmptyCart, "Keranjang Anda kosong")
		case errors.Is(err, service.ErrAddressNotFound):
			apperrors.NotFound(c, apperrors.AddressNotFound, "Alamat tidak ditemukan")
		case errors.Is(err, service.ErrOrderPlacementUnavailable):
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.CheckoutUnavailable, "Layanan pemesanan sedang tidak tersedia")
		default:
			log.Error("Failed to place order", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "place order")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id": orderID,
		"message":  "Pesanan berhasil dibuat",
	})
}
