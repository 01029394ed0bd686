package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func TestGuestSession_MintsToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var captured string
	router.GET("/cart", GuestSession(), func(c *gin.Context) {
		captured, _ = GetSessionID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/cart", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, captured)

	// Minted token is a UUID and is echoed back to the client.
	_, err := uuid.Parse(captured)
	assert.NoError(t, err)
	assert.Equal(t, captured, w.Header().Get(SessionHeader))
}

func TestGuestSession_ReusesClientToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var captured string
	router.GET("/cart", GuestSession(), func(c *gin.Context) {
		captured, _ = GetSessionID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(SessionHeader, "existing-session-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "existing-session-token", captured)
	assert.Equal(t, "existing-session-token", w.Header().Get(SessionHeader))
}

func TestGetCartIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Authenticated user wins over session", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(UserIDKey, uint(7))
		c.Set(sessionIDKey, "guest-token")

		identity := GetCartIdentity(c)
		assert.False(t, identity.IsGuest())
		assert.Equal(t, uint(7), *identity.UserID)
	})

	t.Run("Guest falls back to session token", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(sessionIDKey, "guest-token")

		identity := GetCartIdentity(c)
		assert.True(t, identity.IsGuest())
		assert.Equal(t, model.CartIdentity{SessionID: "guest-token"}, identity)
	})
}
