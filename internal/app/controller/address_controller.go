package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/latifliving/storefront-backend/internal/app/service"
	apperrors "github.com/latifliving/storefront-backend/internal/errors"
	"github.com/latifliving/storefront-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type AddressRequest struct {
	Label         string `json:"label" binding:"required"`
	RecipientName string `json:"recipient_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address" binding:"required"`
	City          string `json:"city" binding:"required"`
	Province      string `json:"province" binding:"required"`
	PostalCode    string `json:"postal_code" binding:"required"`
	IsDefault     bool   `json:"is_default"`
}

// bindAddressRequest binds the request body and reports missing fields
// individually so the client can highlight them.
func bindAddressRequest(c *gin.Context, req *AddressRequest) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields[fieldErr.Field()] = "wajib diisi"
		}
		apperrors.RespondWithValidationError(c, fields)
		return false
	}

	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data alamat tidak valid")
	return false
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Label:         r.Label,
		RecipientName: r.RecipientName,
		Phone:         r.Phone,
		Address:       r.Address,
		City:          r.City,
		Province:      r.Province,
		PostalCode:    r.PostalCode,
		IsDefault:     r.IsDefault,
	}
}

// CreateAddress adds a shipping address
// POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	var req AddressRequest
	if !bindAddressRequest(c, &req) {
		return
	}

	address, err := ctrl.addressService.CreateAddress(userID, req.toInput())
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// GetAddresses lists the user's shipping addresses, default first
// GET /api/v1/addresses
func (ctrl *AddressController) GetAddresses(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	addresses, err := ctrl.addressService.GetAddresses(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// UpdateAddress edits a shipping address
// PUT /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	addressID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID alamat tidak valid")
		return
	}

	var req AddressRequest
	if !bindAddressRequest(c, &req) {
		return
	}

	address, err := ctrl.addressService.UpdateAddress(userID, addressID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.AddressNotFound, "Alamat tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address})
}

// DeleteAddress removes a shipping address
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	addressID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID alamat tidak valid")
		return
	}

	if err := ctrl.addressService.DeleteAddress(userID, addressID); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.AddressNotFound, "Alamat tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alamat berhasil dihapus"})
}

// SetDefaultAddress marks an address as the shipping default
// POST /api/v1/addresses/:id/default
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	addressID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID alamat tidak valid")
		return
	}

	if err := ctrl.addressService.SetDefaultAddress(userID, addressID); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.NotFound(c, apperrors.AddressNotFound, "Alamat tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "set default address")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alamat utama berhasil diubah"})
}
