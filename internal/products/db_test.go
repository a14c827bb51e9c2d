package product

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  brand TEXT,
  sale_price NUMERIC NOT NULL,
  purchase_price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  min_stock INTEGER NOT NULL DEFAULT 0,
  measure_unit TEXT NOT NULL,
  category_id TEXT,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func newProduct(t *testing.T, db *gorm.DB, name string, stock, minStock int, active bool, categoryID *uuid.UUID) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		SKU:           fmt.Sprintf("SKU-%s", uuid.NewString()[:8]),
		Name:          name,
		SalePrice:     decimal.RequireFromString("28.50"),
		PurchasePrice: decimal.RequireFromString("21.00"),
		Stock:         stock,
		MinStock:      minStock,
		MeasureUnit:   enums.MeasureUnitUnidad,
		CategoryID:    categoryID,
		IsActive:      active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
