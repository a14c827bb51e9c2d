package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/pkg/db/models"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product with its category regardless of active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetActiveByID loads an active product with its category. The checkout
// engine snapshots catalog items through this path.
func (r *Repository) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ? AND is_active = ?", id, true).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU loads a product by its unique SKU regardless of active flag.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "sku = ?", sku).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive returns the active catalog ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// SearchFilters narrows the active catalog. Empty fields are ignored.
type SearchFilters struct {
	Name       string
	SKU        string
	Brand      string
	CategoryID *uuid.UUID
}

// Search returns active products matching every provided filter.
func (r *Repository) Search(ctx context.Context, filters SearchFilters) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true)

	if name := strings.TrimSpace(filters.Name); name != "" {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if sku := strings.TrimSpace(filters.SKU); sku != "" {
		qb = qb.Where("LOWER(sku) LIKE ?", "%"+strings.ToLower(sku)+"%")
	}
	if brand := strings.TrimSpace(filters.Brand); brand != "" {
		qb = qb.Where("LOWER(brand) LIKE ?", "%"+strings.ToLower(brand)+"%")
	}
	if filters.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filters.CategoryID)
	}

	var rows []models.Product
	err := qb.Order("name ASC").Find(&rows).Error
	return rows, err
}

// ListLowStock returns active products at or below their minimum stock.
func (r *Repository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ? AND stock <= min_stock", true).
		Order("stock ASC").
		Find(&rows).
		Error
	return rows, err
}

// CountLowStock counts active products at or below their minimum stock.
func (r *Repository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND stock <= min_stock", true).
		Count(&count).
		Error
	return count, err
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Deactivate flips the active flag off. Rows are never removed so sale
// lines keep valid references.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}

// DecrementStock subtracts quantity in a single guarded UPDATE. The false
// return means the product is missing, inactive, or short on stock.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND stock >= ?", id, true, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
