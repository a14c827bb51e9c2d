package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/construplaza/construplaza-backend/api/middleware"
	product "github.com/construplaza/construplaza-backend/internal/products"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

type stubProductService struct {
	items       []product.ProductDTO
	item        *product.ProductDTO
	err         error
	lastFilters product.SearchFilters
	lastActor   uuid.UUID
	lastCreate  product.CreateProductInput
	lastDeleted uuid.UUID
}

func (s *stubProductService) ListProducts(context.Context) ([]product.ProductDTO, error) {
	return s.items, s.err
}

func (s *stubProductService) GetProduct(_ context.Context, id uuid.UUID) (*product.ProductDTO, error) {
	return s.item, s.err
}

func (s *stubProductService) SearchProducts(_ context.Context, filters product.SearchFilters) ([]product.ProductDTO, error) {
	s.lastFilters = filters
	return s.items, s.err
}

func (s *stubProductService) ListLowStock(context.Context) ([]product.ProductDTO, error) {
	return s.items, s.err
}

func (s *stubProductService) CreateProduct(_ context.Context, actorID uuid.UUID, input product.CreateProductInput) (*product.ProductDTO, error) {
	s.lastActor = actorID
	s.lastCreate = input
	return s.item, s.err
}

func (s *stubProductService) UpdateProduct(_ context.Context, actorID, productID uuid.UUID, input product.UpdateProductInput) (*product.ProductDTO, error) {
	s.lastActor = actorID
	return s.item, s.err
}

func (s *stubProductService) DeleteProduct(_ context.Context, actorID, productID uuid.UUID) error {
	s.lastActor = actorID
	s.lastDeleted = productID
	return s.err
}

func TestListProducts(t *testing.T) {
	svc := &stubProductService{items: []product.ProductDTO{{SKU: "FER-001", Name: "Cemento Sol 42.5kg"}}}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []product.ProductDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	require.Equal(t, "FER-001", envelope.Data[0].SKU)
}

func TestSearchProductsPassesFilters(t *testing.T) {
	svc := &stubProductService{}
	handler := SearchProducts(svc, nil)

	categoryID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/products/search?name=cemento&brand=Sol&category="+categoryID.String(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cemento", svc.lastFilters.Name)
	require.Equal(t, "Sol", svc.lastFilters.Brand)
	require.NotNil(t, svc.lastFilters.CategoryID)
	require.Equal(t, categoryID, *svc.lastFilters.CategoryID)
}

func TestSearchProductsRejectsBadCategory(t *testing.T) {
	handler := SearchProducts(&stubProductService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/products/search?category=nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	item := &product.ProductDTO{SKU: "FER-001", Name: "Cemento Sol 42.5kg"}
	svc := &stubProductService{item: item}
	handler := CreateProduct(svc, nil)

	actorID := uuid.New()
	body := `{"sku":"FER-001","name":"Cemento Sol 42.5kg","sale_price":"28.50","purchase_price":"21.00","stock":10,"min_stock":5,"measure_unit":"BOLSA"}`
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, actorID, svc.lastActor)
	require.Equal(t, "FER-001", svc.lastCreate.SKU)
	require.Equal(t, "28.5", svc.lastCreate.SalePrice.String())
}

func TestCreateProductRejectsUnknownFields(t *testing.T) {
	handler := CreateProduct(&stubProductService{}, nil)

	body := `{"sku":"FER-001","name":"x","sale_price":"1","purchase_price":"1","measure_unit":"UNIDAD","sneaky":true}`
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProductMapsNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := DeleteProduct(svc, nil)

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/products/"+productID.String(), nil)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, productID, svc.lastDeleted)
}
