package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/app/repository"
	"github.com/latifliving/storefront-backend/internal/app/service"
	apperrors "github.com/latifliving/storefront-backend/internal/errors"
	"github.com/latifliving/storefront-backend/internal/middleware"
	"github.com/latifliving/storefront-backend/pkg/currency"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductResponse struct {
	ID                   uint     `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	Category             string   `json:"category"`
	Price                int64    `json:"price"`
	PriceDisplay         string   `json:"price_display"`
	DiscountPrice        *int64   `json:"discount_price,omitempty"`
	DiscountPriceDisplay string   `json:"discount_price_display,omitempty"`
	EffectivePrice       int64    `json:"effective_price"`
	StockQuantity        int      `json:"stock_quantity"`
	Images               []string `json:"images"`
	PrimaryImage         string   `json:"primary_image,omitempty"`
}

func toProductResponse(product *model.Product) ProductResponse {
	resp := ProductResponse{
		ID:             product.ID,
		Name:           product.Name,
		Description:    product.Description,
		Category:       string(product.Category),
		Price:          product.Price,
		PriceDisplay:   currency.Format(product.Price),
		DiscountPrice:  product.DiscountPrice,
		EffectivePrice: product.EffectivePrice(),
		StockQuantity:  product.StockQuantity,
		Images:         make([]string, 0, len(product.Images)),
		PrimaryImage:   product.PrimaryImageURL(),
	}
	if product.DiscountPrice != nil {
		resp.DiscountPriceDisplay = currency.Format(*product.DiscountPrice)
	}
	for _, img := range product.Images {
		resp.Images = append(resp.Images, img.URL)
	}
	return resp
}

// GetProducts lists active products with optional filters
// GET /api/v1/products?category=&search=&sort=&order=&limit=&offset=
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Search: c.Query("search"),
		Limit:  20,
	}

	if category := c.Query("category"); category != "" {
		cat := model.ProductCategory(category)
		filter.Category = &cat
	}

	switch c.Query("sort") {
	case "price":
		filter.SortBy = repository.ProductSortPrice
	default:
		filter.SortBy = repository.ProductSortCreatedAt
	}
	filter.SortAscending = c.Query("order") == "asc"

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	products, err := ctrl.productService.GetProducts(filter)
	if err != nil {
		log.Error("Failed to fetch products", err, map[string]interface{}{
			"search": filter.Search,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get products")
		return
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, toProductResponse(&products[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"products": responses,
		"count":    len(responses),
	})
}

// GetProduct returns a single product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID produk tidak valid")
		return
	}

	product, err := ctrl.productService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Produk tidak ditemukan")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": toProductResponse(product)})
}

type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" binding:"required"`
	Price         int64    `json:"price" binding:"required"`
	DiscountPrice *int64   `json:"discount_price"`
	StockQuantity int      `json:"stock_quantity"`
	ImageURLs     []string `json:"image_urls"`
}

// CreateProduct lists a new product (admin only)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data produk tidak valid")
		return
	}

	product, err := ctrl.productService.CreateProduct(service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      model.ProductCategory(req.Category),
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		StockQuantity: req.StockQuantity,
		ImageURLs:     req.ImageURLs,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Harga produk tidak valid")
			return
		}
		if errors.Is(err, service.ErrInvalidCategory) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Kategori produk tidak dikenal")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": toProductResponse(product)})
}
