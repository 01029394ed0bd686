package service

import (
	"errors"

	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/app/repository"
	"github.com/latifliving/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidCategory = errors.New("unknown product category")
)

// ProductInput carries the fields an admin supplies when listing a product.
type ProductInput struct {
	Name          string
	Description   string
	Category      model.ProductCategory
	Price         int64
	DiscountPrice *int64
	StockQuantity int
	ImageURLs     []string
}

type ProductService interface {
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{
		productRepo: productRepo,
	}
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	logger.Debug("Fetching products", map[string]interface{}{
		"category": filter.Category,
		"search":   filter.Search,
	})

	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to fetch products", err, map[string]interface{}{
			"category": filter.Category,
		})
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	if input.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.DiscountPrice != nil && *input.DiscountPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	product := &model.Product{
		Name:          input.Name,
		Description:   input.Description,
		Category:      input.Category,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		StockQuantity: input.StockQuantity,
		IsActive:      true,
	}
	for i, url := range input.ImageURLs {
		product.Images = append(product.Images, model.ProductImage{
			URL:       url,
			IsPrimary: i == 0,
			SortOrder: i,
		})
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}
