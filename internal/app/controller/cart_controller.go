package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/app/service"
	apperrors "github.com/latifliving/storefront-backend/internal/errors"
	"github.com/latifliving/storefront-backend/internal/middleware"
	"github.com/latifliving/storefront-backend/pkg/currency"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint                   `json:"product_id" binding:"required"`
	Quantity  int                    `json:"quantity" binding:"required"`
	Options   map[string]interface{} `json:"options"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type MergeCartRequest struct {
	SessionToken string `json:"session_token" binding:"required"`
}

// CartItemResponse is a cart line with its money fields pre-formatted in
// rupiah for display.
type CartItemResponse struct {
	ID               uint                   `json:"id"`
	ProductID        uint                   `json:"product_id"`
	ProductName      string                 `json:"product_name"`
	ProductImage     string                 `json:"product_image,omitempty"`
	Quantity         int                    `json:"quantity"`
	UnitPrice        int64                  `json:"unit_price"`
	UnitPriceDisplay string                 `json:"unit_price_display"`
	Subtotal         int64                  `json:"subtotal"`
	SubtotalDisplay  string                 `json:"subtotal_display"`
	Options          map[string]interface{} `json:"options,omitempty"`
	IsSavedForLater  bool                   `json:"is_saved_for_later"`
}

type CartResponse struct {
	ID              uint               `json:"id"`
	Items           []CartItemResponse `json:"items"`
	SavedItems      []CartItemResponse `json:"saved_items"`
	ItemCount       int                `json:"item_count"`
	CouponCode      *string            `json:"coupon_code,omitempty"`
	DiscountAmount  int64              `json:"discount_amount"`
	DiscountDisplay string             `json:"discount_display,omitempty"`
	Subtotal        int64              `json:"subtotal"`
	SubtotalDisplay string             `json:"subtotal_display"`
	Total           int64              `json:"total"`
	TotalDisplay    string             `json:"total_display"`
	Notes           string             `json:"notes,omitempty"`
}

func toCartItemResponse(item model.CartItem) CartItemResponse {
	resp := CartItemResponse{
		ID:               item.ID,
		ProductID:        item.ProductID,
		Quantity:         item.Quantity,
		UnitPrice:        item.UnitPrice,
		UnitPriceDisplay: currency.Format(item.UnitPrice),
		Subtotal:         item.Subtotal(),
		SubtotalDisplay:  currency.Format(item.Subtotal()),
		Options:          item.Options,
		IsSavedForLater:  item.IsSavedForLater,
	}
	if item.Product.ID != 0 {
		resp.ProductName = item.Product.Name
		resp.ProductImage = item.Product.PrimaryImageURL()
	}
	return resp
}

func toCartResponse(cart *model.Cart) CartResponse {
	resp := CartResponse{
		ID:              cart.ID,
		Items:           make([]CartItemResponse, 0),
		SavedItems:      make([]CartItemResponse, 0),
		ItemCount:       cart.ItemCount(),
		CouponCode:      cart.CouponCode,
		DiscountAmount:  cart.DiscountAmount,
		Subtotal:        cart.Subtotal(),
		SubtotalDisplay: currency.Format(cart.Subtotal()),
		Total:           cart.Total(),
		TotalDisplay:    currency.Format(cart.Total()),
		Notes:           cart.Notes,
	}
	if cart.DiscountAmount > 0 {
		resp.DiscountDisplay = currency.Format(cart.DiscountAmount)
	}
	for _, item := range cart.ActiveItems() {
		resp.Items = append(resp.Items, toCartItemResponse(item))
	}
	for _, item := range cart.SavedItems() {
		resp.SavedItems = append(resp.SavedItems, toCartItemResponse(item))
	}
	return resp
}

// respondWithCart re-reads the cart and returns the refreshed projection so
// every mutation answers with the state the client should render.
func (ctrl *CartController) respondWithCart(c *gin.Context, status int, identity model.CartIdentity) {
	cart, err := ctrl.cartService.GetCart(identity)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(status, gin.H{"cart": emptyCartResponse()})
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get cart")
		return
	}
	c.JSON(status, gin.H{"cart": toCartResponse(cart)})
}

func emptyCartResponse() CartResponse {
	return CartResponse{
		Items:           make([]CartItemResponse, 0),
		SavedItems:      make([]CartItemResponse, 0),
		SubtotalDisplay: currency.Format(0),
		TotalDisplay:    currency.Format(0),
	}
}

// GetCart returns the current cart for the user or guest session
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	identity := middleware.GetCartIdentity(c)
	ctrl.respondWithCart(c, http.StatusOK, identity)
}

// AddToCart adds a product to the cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	identity := middleware.GetCartIdentity(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	_, err := ctrl.cartService.AddToCart(identity, req.ProductID, req.Quantity, req.Options)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Jumlah harus lebih dari nol")
			return
		}
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Produk tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add to cart")
		return
	}

	ctrl.respondWithCart(c, http.StatusCreated, identity)
}

// UpdateCartItem changes a line's quantity; zero or below removes the line
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	identity := middleware.GetCartIdentity(c)

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "ID item tidak valid")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart item request", map[string]interface{}{
			"item_id": itemID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data permintaan tidak valid")
		return
	}

	_, err = ctrl.cartService.UpdateItemQuantity(identity, itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Item keranjang tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update cart item")
		return
	}

	ctrl.respondWithCart(c, http.StatusOK, identity)
}

// RemoveFromCart deletes a line from the cart
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	identity := middleware.GetCartIdentity(c)

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "ID item tidak valid")
		return
	}

	if err := ctrl.cartService.RemoveItem(identity, itemID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Item keranjang tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove cart item")
		return
	}

	ctrl.respondWithCart(c, http.StatusOK, identity)
}

// ClearCart removes every item and resets the coupon
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	identity := middleware.GetCartIdentity(c)

	if err := ctrl.cartService.ClearCart(identity); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "clear cart")
		return
	}

	ctrl.respondWithCart(c, http.StatusOK, identity)
}

// SaveForLater parks a line outside the checkout totals
// POST /api/v1/cart/items/:id/save
func (ctrl *CartController) SaveForLater(c *gin.Context) {
	ctrl.toggleSaved(c, true)
}

// MoveToCart returns a saved line to the active cart
// POST /api/v1/cart/items/:id/move
func (ctrl *CartController) MoveToCart(c *gin.Context) {
	ctrl.toggleSaved(c, false)
}

func (ctrl *CartController) toggleSaved(c *gin.Context, saved bool) {
	identity := middleware.GetCartIdentity(c)

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "ID item tidak valid")
		return
	}

	if saved {
		err = ctrl.cartService.SaveForLater(identity, itemID)
	} else {
		err = ctrl.cartService.MoveToCart(identity, itemID)
	}
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Item keranjang tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "save cart item")
		return
	}

	ctrl.respondWithCart(c, http.StatusOK, identity)
}

// ApplyCoupon attaches a coupon code to the cart
// POST /api/v1/cart/coupon
func (ctrl *CartController) ApplyCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	identity := middleware.GetCartIdentity(c)

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Kode kupon wajib diisi")
		return
	}

	if err := ctrl.cartService.ApplyCoupon(identity, req.Code); err != nil {
		if errors.Is(err, service.ErrInvalidCoupon) {
			log.Warn("Invalid coupon code", map[string]interface{}{
				"code": req.Code,
			})
			apperrors.BadRequest(c, apperrors.CartCouponInvalid, "Kode kupon tidak valid")
			return
		}
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Keranjang tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "apply coupon")
		return
	}

	ctrl.respondWithCart(c, http.StatusOK, identity)
}

// MergeCart folds a guest cart into the authenticated user's cart
// POST /api/v1/cart/merge
func (ctrl *CartController) MergeCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Token sesi wajib diisi")
		return
	}

	if err := ctrl.cartService.MergeGuestCart(userID, req.SessionToken); err != nil {
		log.Error("Failed to merge guest cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.CartMergeFailed, "Gagal menggabungkan keranjang")
		return
	}

	ctrl.respondWithCart(c, http.StatusOK, model.CartIdentity{UserID: &userID})
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
