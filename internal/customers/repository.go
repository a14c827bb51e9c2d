package customer

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/pkg/db/models"
)

// Repository persists customer records.
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

// FindByID loads a customer by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByDocument loads a customer by its unique document number.
func (r *Repository) FindByDocument(ctx context.Context, documentNumber string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "document_number = ?", documentNumber).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindAnonymous returns the walk-in customer seeded at install time.
func (r *Repository) FindAnonymous(ctx context.Context) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("is_anonymous = ?", true).
		Order("created_at ASC").
		First(&customer).
		Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// List returns identified customers ordered by most recent first.
func (r *Repository) List(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).
		Where("is_anonymous = ?", false).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Update saves an existing customer row.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}
