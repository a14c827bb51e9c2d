package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/construplaza/construplaza-backend/api/middleware"
	"github.com/construplaza/construplaza-backend/api/responses"
	"github.com/construplaza/construplaza-backend/api/validators"
	product "github.com/construplaza/construplaza-backend/internal/products"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/logger"
)

type createProductRequest struct {
	SKU           string          `json:"sku" validate:"required,max=40"`
	Name          string          `json:"name" validate:"required,max=160"`
	Description   *string         `json:"description,omitempty"`
	Brand         *string         `json:"brand,omitempty"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"required"`
	Stock         int             `json:"stock" validate:"min=0"`
	MinStock      int             `json:"min_stock" validate:"min=0"`
	MeasureUnit   string          `json:"measure_unit" validate:"required"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty"`
}

type updateProductRequest struct {
	SKU           *string          `json:"sku,omitempty" validate:"omitempty,max=40"`
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=160"`
	Description   *string          `json:"description,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	Stock         *int             `json:"stock,omitempty"`
	MinStock      *int             `json:"min_stock,omitempty"`
	MeasureUnit   *string          `json:"measure_unit,omitempty"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// ListProducts returns the active catalog ordered by name.
func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		items, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// SearchProducts filters the active catalog by name, sku, brand, or category.
func SearchProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := product.SearchFilters{
			Name:       validators.SanitizeString(r.URL.Query().Get("name"), 160),
			SKU:        validators.SanitizeString(r.URL.Query().Get("sku"), 40),
			Brand:      validators.SanitizeString(r.URL.Query().Get("brand"), 80),
			CategoryID: categoryID,
		}

		items, err := svc.SearchProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// LowStockProducts lists active products at or below their minimum stock.
func LowStockProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		items, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateProduct(r.Context(), middleware.ActorIDFromContext(r.Context()), product.CreateProductInput{
			SKU:           body.SKU,
			Name:          body.Name,
			Description:   body.Description,
			Brand:         body.Brand,
			SalePrice:     body.SalePrice,
			PurchasePrice: body.PurchasePrice,
			Stock:         body.Stock,
			MinStock:      body.MinStock,
			MeasureUnit:   enums.MeasureUnit(body.MeasureUnit),
			CategoryID:    body.CategoryID,
			ImageURL:      body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func UpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.UpdateProductInput{
			SKU:           body.SKU,
			Name:          body.Name,
			Description:   body.Description,
			Brand:         body.Brand,
			SalePrice:     body.SalePrice,
			PurchasePrice: body.PurchasePrice,
			Stock:         body.Stock,
			MinStock:      body.MinStock,
			CategoryID:    body.CategoryID,
			ImageURL:      body.ImageURL,
			IsActive:      body.IsActive,
		}
		if body.MeasureUnit != nil {
			unit := enums.MeasureUnit(*body.MeasureUnit)
			input.MeasureUnit = &unit
		}

		item, err := svc.UpdateProduct(r.Context(), middleware.ActorIDFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func DeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), middleware.ActorIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
