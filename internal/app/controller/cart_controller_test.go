package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/app/repository"
	"github.com/latifliving/storefront-backend/internal/app/service"
	"github.com/latifliving/storefront-backend/internal/db"
	"github.com/latifliving/storefront-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo, testDB)
	cartController := NewCartController(cartService)

	// Create test user
	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	// Create test product
	product := &model.Product{
		Name:          "Sofa Dua Dudukan",
		Category:      model.CategorySofa,
		Price:         1750000,
		StockQuantity: 5,
		IsActive:      true,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Same wiring as the real cart routes, with a header-driven fake auth in
	// place of JWT validation
	router.Use(middleware.GuestSession(), fakeAuth())
	router.GET("/cart", cartController.GetCart)
	router.DELETE("/cart", cartController.ClearCart)
	router.POST("/cart/items", cartController.AddToCart)
	router.PUT("/cart/items/:id", cartController.UpdateCartItem)
	router.DELETE("/cart/items/:id", cartController.RemoveFromCart)
	router.POST("/cart/items/:id/save", cartController.SaveForLater)
	router.POST("/cart/items/:id/move", cartController.MoveToCart)
	router.POST("/cart/coupon", cartController.ApplyCoupon)
	router.POST("/cart/merge", cartController.MergeCart)

	return router, testDB, user, product
}

// fakeAuth reads X-Test-User-ID and seeds the context the way the real auth
// middleware would.
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("X-Test-User-ID"); header != "" {
			var userID uint
			fmt.Sscanf(header, "%d", &userID)
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	}
}

func doCartRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeCartResponse(t *testing.T, w *httptest.ResponseRecorder) CartResponse {
	var body struct {
		Cart CartResponse `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Cart
}

func TestCartController_GetCart_EmptyForNewGuest(t *testing.T) {
	router, _, _, _ := setupCartControllerTest(t)

	w := doCartRequest(router, "GET", "/cart", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	// A fresh guest gets a minted session token back
	assert.NotEmpty(t, w.Header().Get(middleware.SessionHeader))

	cart := decodeCartResponse(t, w)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "Rp 0", cart.TotalDisplay)
}

func TestCartController_AddToCart_Guest(t *testing.T) {
	router, _, _, product := setupCartControllerTest(t)

	headers := map[string]string{middleware.SessionHeader: "guest-session-1"}
	w := doCartRequest(router, "POST", "/cart/items", gin.H{
		"product_id": product.ID,
		"quantity":   2,
		"options":    gin.H{"color": "abu-abu"},
	}, headers)

	require.Equal(t, http.StatusCreated, w.Code)

	cart := decodeCartResponse(t, w)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Rp 1.750.000", cart.Items[0].UnitPriceDisplay)
	assert.Equal(t, "Rp 3.500.000", cart.TotalDisplay)
	assert.Equal(t, "abu-abu", cart.Items[0].Options["color"])
}

func TestCartController_AddToCart_Validation(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)
	headers := map[string]string{"X-Test-User-ID": fmt.Sprint(user.ID)}

	t.Run("Zero quantity", func(t *testing.T) {
		w := doCartRequest(router, "POST", "/cart/items", gin.H{
			"product_id": product.ID,
			"quantity":   0,
		}, headers)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Negative quantity", func(t *testing.T) {
		w := doCartRequest(router, "POST", "/cart/items", gin.H{
			"product_id": product.ID,
			"quantity":   -1,
		}, headers)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown product", func(t *testing.T) {
		w := doCartRequest(router, "POST", "/cart/items", gin.H{
			"product_id": 99999,
			"quantity":   1,
		}, headers)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")
	})

	t.Run("Missing product id", func(t *testing.T) {
		w := doCartRequest(router, "POST", "/cart/items", gin.H{
			"quantity": 1,
		}, headers)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartController_UpdateCartItem(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)
	headers := map[string]string{"X-Test-User-ID": fmt.Sprint(user.ID)}

	w := doCartRequest(router, "POST", "/cart/items", gin.H{
		"product_id": product.ID,
		"quantity":   1,
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)
	itemID := decodeCartResponse(t, w).Items[0].ID

	w = doCartRequest(router, "PUT", fmt.Sprintf("/cart/items/%d", itemID), gin.H{
		"quantity": 4,
	}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	cart := decodeCartResponse(t, w)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, "Rp 7.000.000", cart.TotalDisplay)
}

func TestCartController_UpdateCartItem_ZeroRemovesLine(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)
	headers := map[string]string{"X-Test-User-ID": fmt.Sprint(user.ID)}

	w := doCartRequest(router, "POST", "/cart/items", gin.H{
		"product_id": product.ID,
		"quantity":   2,
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)
	itemID := decodeCartResponse(t, w).Items[0].ID

	w = doCartRequest(router, "PUT", fmt.Sprintf("/cart/items/%d", itemID), gin.H{
		"quantity": 0,
	}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	cart := decodeCartResponse(t, w)
	assert.Empty(t, cart.Items)
}

func TestCartController_RemoveFromCart(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)
	headers := map[string]string{"X-Test-User-ID": fmt.Sprint(user.ID)}

	w := doCartRequest(router, "POST", "/cart/items", gin.H{
		"product_id": product.ID,
		"quantity":   1,
	}, headers)
	itemID := decodeCartResponse(t, w).Items[0].ID

	w = doCartRequest(router, "DELETE", fmt.Sprintf("/cart/items/%d", itemID), nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCartResponse(t, w).Items)

	// Deleting again is a 404
	w = doCartRequest(router, "DELETE", fmt.Sprintf("/cart/items/%d", itemID), nil, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_GuestCannotTouchUserItems(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)
	userHeaders := map[string]string{"X-Test-User-ID": fmt.Sprint(user.ID)}

	w := doCartRequest(router, "POST", "/cart/items", gin.H{
		"product_id": product.ID,
		"quantity":   1,
	}, userHeaders)
	itemID := decodeCartResponse(t, w).Items[0].ID

	guestHeaders := map[string]string{middleware.SessionHeader: "sneaky-guest"}
	w = doCartRequest(router, "DELETE", fmt.Sprintf("/cart/items/%d", itemID), nil, guestHeaders)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_SaveForLaterRoundTrip(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)
	headers := map[string]string{"X-Test-User-ID": fmt.Sprint(user.ID)}

	w := doCartRequest(router, "POST", "/cart/items", gin.H{
		"product_id": product.ID,
		"quantity":   1,
	}, headers)
	itemID := decodeCartResponse(t, w).Items[0].ID

	w = doCartRequest(router, "POST", fmt.Sprintf("/cart/items/%d/save", itemID), nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decodeCartResponse(t, w)
	assert.Empty(t, cart.Items)
	require.Len(t, cart.SavedItems, 1)
	assert.Equal(t, "Rp 0", cart.TotalDisplay)

	w = doCartRequest(router, "POST", fmt.Sprintf("/cart/items/%d/move", itemID), nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	cart = decodeCartResponse(t, w)
	require.Len(t, cart.Items, 1)
	assert.Empty(t, cart.SavedItems)
}

func TestCartController_ApplyCoupon(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)
	headers := map[string]string{"X-Test-User-ID": fmt.Sprint(user.ID)}

	doCartRequest(router, "POST", "/cart/items", gin.H{
		"product_id": product.ID,
		"quantity":   1,
	}, headers)

	w := doCartRequest(router, "POST", "/cart/coupon", gin.H{"code": "HEMAT50"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	cart := decodeCartResponse(t, w)
	require.NotNil(t, cart.CouponCode)
	assert.Equal(t, "HEMAT50", *cart.CouponCode)
	assert.Equal(t, "Rp 50.000", cart.DiscountDisplay)
	assert.Equal(t, "Rp 1.700.000", cart.TotalDisplay)

	w = doCartRequest(router, "POST", "/cart/coupon", gin.H{"code": "PALSU"}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CART_COUPON_INVALID")
}

func TestCartController_ClearCart(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)
	headers := map[string]string{"X-Test-User-ID": fmt.Sprint(user.ID)}

	doCartRequest(router, "POST", "/cart/items", gin.H{
		"product_id": product.ID,
		"quantity":   3,
	}, headers)
	doCartRequest(router, "POST", "/cart/coupon", gin.H{"code": "HEMAT100"}, headers)

	w := doCartRequest(router, "DELETE", "/cart", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	cart := decodeCartResponse(t, w)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.CouponCode)
	assert.Equal(t, "Rp 0", cart.TotalDisplay)
}

func TestCartController_MergeCart(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)

	// Guest builds a cart
	guestHeaders := map[string]string{middleware.SessionHeader: "pre-login-session"}
	w := doCartRequest(router, "POST", "/cart/items", gin.H{
		"product_id": product.ID,
		"quantity":   2,
	}, guestHeaders)
	require.Equal(t, http.StatusCreated, w.Code)

	// After login the client hands the token over for merging
	userHeaders := map[string]string{"X-Test-User-ID": fmt.Sprint(user.ID)}
	w = doCartRequest(router, "POST", "/cart/merge", gin.H{
		"session_token": "pre-login-session",
	}, userHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	cart := decodeCartResponse(t, w)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// The guest session now resolves to an empty cart
	w = doCartRequest(router, "GET", "/cart", nil, guestHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCartResponse(t, w).Items)
}
