package repository

import (
	"testing"

	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return testDB, NewProductRepository(testDB)
}

func TestProductRepository_Create(t *testing.T) {
	_, repo := setupProductTest(t)

	product := &model.Product{
		Name:     "Sofa L Minimalis",
		Category: model.CategorySofa,
		Price:    4200000,
		IsActive: true,
		Images: []model.ProductImage{
			{URL: "https://cdn.example.com/sofa-1.jpg", IsPrimary: true},
			{URL: "https://cdn.example.com/sofa-2.jpg", SortOrder: 1},
		},
	}

	err := repo.Create(product)
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.NotZero(t, product.Images[0].ID)
}

func TestProductRepository_BulkCreate(t *testing.T) {
	_, repo := setupProductTest(t)

	products := []model.Product{
		{Name: "Meja A", Category: model.CategoryTable, Price: 100000, IsActive: true},
		{Name: "Meja B", Category: model.CategoryTable, Price: 200000, IsActive: true},
		{Name: "Meja C", Category: model.CategoryTable, Price: 300000, IsActive: true},
	}

	err := repo.BulkCreate(products, 2)
	require.NoError(t, err)

	found, err := repo.FindWithFilter(ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo := setupProductTest(t)

	products := []model.Product{
		{Name: "Sofa Skandinavia", Category: model.CategorySofa, Price: 3000000, IsActive: true},
		{Name: "Kursi Santai", Category: model.CategoryChair, Price: 800000, IsActive: true},
		{Name: "Kursi Bar", Category: model.CategoryChair, Price: 600000, IsActive: true},
		{Name: "Produk Nonaktif", Category: model.CategoryChair, Price: 100000, IsActive: false},
	}
	require.NoError(t, testDB.Create(&products).Error)

	t.Run("Excludes inactive products", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{})
		require.NoError(t, err)
		assert.Len(t, found, 3)
	})

	t.Run("Filter by category", func(t *testing.T) {
		category := model.CategoryChair
		found, err := repo.FindWithFilter(ProductFilter{Category: &category})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("Search by name", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{Search: "Skandinavia"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Sofa Skandinavia", found[0].Name)
	})

	t.Run("Sort by price ascending", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{
			SortBy:        ProductSortPrice,
			SortAscending: true,
		})
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, int64(600000), found[0].Price)
		assert.Equal(t, int64(3000000), found[2].Price)
	})

	t.Run("Limit and offset", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{
			SortBy:        ProductSortPrice,
			SortAscending: true,
			Limit:         2,
			Offset:        1,
		})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, int64(800000), found[0].Price)
	})
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo := setupProductTest(t)

	product := &model.Product{
		Name:     "Lampu Gantung",
		Category: model.CategoryLighting,
		Price:    250000,
		IsActive: true,
		Images: []model.ProductImage{
			{URL: "https://cdn.example.com/lamp.jpg", IsPrimary: true},
		},
	}
	require.NoError(t, testDB.Create(product).Error)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lampu Gantung", found.Name)
	require.Len(t, found.Images, 1)

	_, err = repo.FindByID(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
