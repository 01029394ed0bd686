package service

import (
	"errors"

	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/app/repository"
	"github.com/latifliving/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAddressNotFound    = errors.New("address not found")
	ErrUnauthorizedAccess = errors.New("unauthorized access")
)

type AddressInput struct {
	Label         string
	RecipientName string
	Phone         string
	Address       string
	City          string
	Province      string
	PostalCode    string
	IsDefault     bool
}

type AddressService interface {
	CreateAddress(userID uint, input AddressInput) (*model.Address, error)
	GetAddresses(userID uint) ([]model.Address, error)
	GetAddressByID(userID, addressID uint) (*model.Address, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error)
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) CreateAddress(userID uint, input AddressInput) (*model.Address, error) {
	address := &model.Address{
		UserID:        userID,
		Label:         input.Label,
		RecipientName: input.RecipientName,
		Phone:         input.Phone,
		Address:       input.Address,
		City:          input.City,
		Province:      input.Province,
		PostalCode:    input.PostalCode,
		IsDefault:     input.IsDefault,
	}

	// The first address always becomes the default.
	existing, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		address.IsDefault = true
	}

	if err := s.addressRepo.Create(address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if address.IsDefault && len(existing) > 0 {
		if err := s.addressRepo.SetDefault(userID, address.ID); err != nil {
			return nil, err
		}
	}

	logger.Info("Address created", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
	})
	return address, nil
}

func (s *addressService) GetAddresses(userID uint) ([]model.Address, error) {
	return s.addressRepo.FindByUserID(userID)
}

func (s *addressService) GetAddressByID(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		logger.Warn("Address access denied", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return nil, ErrAddressNotFound
	}
	return address, nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error) {
	address, err := s.GetAddressByID(userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Label = input.Label
	address.RecipientName = input.RecipientName
	address.Phone = input.Phone
	address.Address = input.Address
	address.City = input.City
	address.Province = input.Province
	address.PostalCode = input.PostalCode

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(userID, address.ID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	return address, nil
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	address, err := s.GetAddressByID(userID, addressID)
	if err != nil {
		return err
	}
	if err := s.addressRepo.Delete(address.ID); err != nil {
		return err
	}
	logger.Info("Address deleted", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) error {
	if _, err := s.GetAddressByID(userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.SetDefault(userID, addressID)
}
