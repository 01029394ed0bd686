package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

const authControllerTestSecret = "auth-controller-test-secret"

func setupAuthControllerTest(t *testing.T) (*gin.Engine, service.CartService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	authService := service.NewAuthService(userRepo, authControllerTestSecret, 15*time.Minute, 7*24*time.Hour)
	cartService := service.NewCartService(cartRepo, productRepo, testDB)
	authController := NewAuthController(authService, cartService, authControllerTestSecret)
	authMiddleware := middleware.NewAuthMiddleware(authControllerTestSecret)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", authController.Register)
	router.POST("/auth/login", authController.Login)
	router.POST("/auth/logout", authMiddleware.Authenticate(), authController.Logout)
	router.GET("/auth/me", authMiddleware.Authenticate(), authController.GetMe)
	router.PUT("/auth/me", authMiddleware.Authenticate(), authController.UpdateMe)

	return router, cartService, testDB
}

func doAuthRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
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

type authResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func registerTestUser(t *testing.T, router *gin.Engine, email string) authResponse {
	w := doAuthRequest(router, "POST", "/auth/register", gin.H{
		"email":    email,
		"password": "rahasia123",
		"name":     "Budi Santoso",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthController_Register(t *testing.T) {
	router, _, _ := setupAuthControllerTest(t)

	resp := registerTestUser(t, router, "budi@example.com")
	assert.NotZero(t, resp.User.ID)
	assert.Equal(t, "budi@example.com", resp.User.Email)
	assert.Equal(t, "user", resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestAuthController_Register_Validation(t *testing.T) {
	router, _, _ := setupAuthControllerTest(t)

	t.Run("Invalid email", func(t *testing.T) {
		w := doAuthRequest(router, "POST", "/auth/register", gin.H{
			"email":    "bukan-email",
			"password": "rahasia123",
			"name":     "Budi",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Short password", func(t *testing.T) {
		w := doAuthRequest(router, "POST", "/auth/register", gin.H{
			"email":    "budi@example.com",
			"password": "pendek",
			"name":     "Budi",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		registerTestUser(t, router, "dobel@example.com")
		w := doAuthRequest(router, "POST", "/auth/register", gin.H{
			"email":    "dobel@example.com",
			"password": "rahasia123",
			"name":     "Budi Dua",
		}, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
	})
}

func TestAuthController_Login(t *testing.T) {
	router, _, _ := setupAuthControllerTest(t)
	registerTestUser(t, router, "sari@example.com")

	w := doAuthRequest(router, "POST", "/auth/login", gin.H{
		"email":    "sari@example.com",
		"password": "rahasia123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	router, _, _ := setupAuthControllerTest(t)
	registerTestUser(t, router, "sari@example.com")

	w := doAuthRequest(router, "POST", "/auth/login", gin.H{
		"email":    "sari@example.com",
		"password": "salahtotal",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_Login_MergesGuestCart(t *testing.T) {
	router, cartService, testDB := setupAuthControllerTest(t)
	registerTestUser(t, router, "sari@example.com")

	product := &model.Product{
		Name:     "Cermin Dinding",
		Category: model.CategoryDecor,
		Price:    300000,
		IsActive: true,
	}
	testDB.Create(product)

	// Guest shops before logging in
	guest := model.CartIdentity{SessionID: "pre-login-token"}
	_, err := cartService.AddToCart(guest, product.ID, 2, nil)
	require.NoError(t, err)

	// The login request carries the guest session token
	w := doAuthRequest(router, "POST", "/auth/login", gin.H{
		"email":    "sari@example.com",
		"password": "rahasia123",
	}, map[string]string{middleware.SessionHeader: "pre-login-token"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// The guest cart moved over to the user
	userCart, err := cartService.GetCart(model.CartIdentity{UserID: &resp.User.ID})
	require.NoError(t, err)
	require.Len(t, userCart.ActiveItems(), 1)
	assert.Equal(t, 2, userCart.ActiveItems()[0].Quantity)

	_, err = cartService.GetCart(guest)
	assert.ErrorIs(t, err, service.ErrCartNotFound)
}

func TestAuthController_GetMe(t *testing.T) {
	router, _, _ := setupAuthControllerTest(t)
	resp := registerTestUser(t, router, "andi@example.com")

	w := doAuthRequest(router, "GET", "/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + resp.AccessToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "andi@example.com")

	// No token
	w = doAuthRequest(router, "GET", "/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_UpdateMe(t *testing.T) {
	router, _, _ := setupAuthControllerTest(t)
	resp := registerTestUser(t, router, "andi@example.com")

	w := doAuthRequest(router, "PUT", "/auth/me", gin.H{
		"name":  "Andi Wijaya",
		"phone": "0811223344",
	}, map[string]string{
		"Authorization": "Bearer " + resp.AccessToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Andi Wijaya")
}

func TestAuthController_Logout(t *testing.T) {
	router, _, _ := setupAuthControllerTest(t)
	resp := registerTestUser(t, router, "keluar@example.com")

	// Without Redis the endpoint still answers; revocation is best effort
	w := doAuthRequest(router, "POST", "/auth/logout", nil, map[string]string{
		"Authorization": "Bearer " + resp.AccessToken,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Berhasil keluar")
}
