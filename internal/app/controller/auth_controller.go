package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/app/service"
	apperrors "github.com/latifliving/storefront-backend/internal/errors"
	"github.com/latifliving/storefront-backend/internal/middleware"
	"github.com/latifliving/storefront-backend/pkg/redis"
	"github.com/latifliving/storefront-backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
	cartService service.CartService
	jwtSecret   string
}

func NewAuthController(authService service.AuthService, cartService service.CartService, jwtSecret string) *AuthController {
	return &AuthController{
		authService: authService,
		cartService: cartService,
		jwtSecret:   jwtSecret,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
		Role:  string(user.Role),
	}
}

// Register creates a new account
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data pendaftaran tidak valid")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email sudah terdaftar")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		return
	}

	ctrl.mergeGuestCart(c, user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"user":          toUserResponse(user),
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Login authenticates a user. When the request carries a guest session
// token, the guest cart is folded into the user's cart.
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data login tidak valid")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Unauthorized(c, "Email atau kata sandi salah")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	ctrl.mergeGuestCart(c, user.ID)

	c.JSON(http.StatusOK, gin.H{
		"user":          toUserResponse(user),
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// mergeGuestCart folds the pre-login guest cart into the user's cart. A
// merge failure is logged but never fails the login itself.
func (ctrl *AuthController) mergeGuestCart(c *gin.Context, userID uint) {
	sessionToken := c.GetHeader(middleware.SessionHeader)
	if sessionToken == "" {
		return
	}

	log := middleware.GetLoggerFromContext(c)
	if err := ctrl.cartService.MergeGuestCart(userID, sessionToken); err != nil {
		log.Error("Failed to merge guest cart on login", err, map[string]interface{}{
			"user_id": userID,
		})
	}
}

// Logout revokes the current access token until it would have expired
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}
	token := parts[1]

	claims, err := util.ValidateToken(token, ctrl.jwtSecret)
	if err != nil {
		// An already invalid token has nothing left to revoke.
		c.JSON(http.StatusOK, gin.H{"message": "Berhasil keluar"})
		return
	}

	if redis.GetClient() != nil {
		remaining := time.Until(claims.ExpiresAt.Time)
		if remaining > 0 {
			if err := redis.BlacklistToken(c.Request.Context(), token, remaining); err != nil {
				log.Error("Failed to blacklist token on logout", err, map[string]interface{}{
					"user_id": claims.UserID,
				})
				apperrors.InternalError(c, "Gagal keluar, silakan coba lagi")
				return
			}
		}
	}

	log.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Berhasil keluar"})
}

// GetMe returns the authenticated user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Pengguna tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// UpdateMe updates the authenticated user's profile
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data profil tidak valid")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Pengguna tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
