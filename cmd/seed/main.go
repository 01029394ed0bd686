package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/latifliving/storefront-backend/config"
	"github.com/latifliving/storefront-backend/internal/app/model"
	"github.com/latifliving/storefront-backend/internal/app/repository"
	"github.com/latifliving/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Expected sheet columns:
//
//	0 name | 1 description | 2 category | 3 price | 4 discount_price
//	5 stock_quantity | 6 image_urls (comma separated)
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		// First row is the header
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 4 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" || seen[name] {
			skippedCount++
			continue
		}

		price, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64)
		if err != nil || price <= 0 {
			fmt.Printf("Row %d: invalid price %q, skipping\n", i+1, row[3])
			skippedCount++
			continue
		}

		product := model.Product{
			Name:     name,
			Price:    price,
			IsActive: true,
		}

		if len(row) > 1 {
			product.Description = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			category := model.ProductCategory(strings.TrimSpace(strings.ToLower(row[2])))
			if !category.Valid() {
				fmt.Printf("Row %d: unknown category %q, skipping\n", i+1, row[2])
				skippedCount++
				continue
			}
			product.Category = category
		}
		if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
			discount, err := strconv.ParseInt(strings.TrimSpace(row[4]), 10, 64)
			if err == nil && discount > 0 {
				product.DiscountPrice = &discount
			}
		}
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			if stock, err := strconv.Atoi(strings.TrimSpace(row[5])); err == nil && stock >= 0 {
				product.StockQuantity = stock
			}
		}
		if len(row) > 6 && strings.TrimSpace(row[6]) != "" {
			for j, url := range strings.Split(row[6], ",") {
				url = strings.TrimSpace(url)
				if url == "" {
					continue
				}
				product.Images = append(product.Images, model.ProductImage{
					URL:       url,
					IsPrimary: j == 0,
					SortOrder: j,
				})
			}
		}

		seen[name] = true
		products = append(products, product)
	}

	fmt.Printf("Skipped rows: %d\n", skippedCount)
	return products, nil
}
