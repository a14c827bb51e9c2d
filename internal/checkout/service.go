package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/construplaza/construplaza-backend/pkg/config"
	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

type productLoader interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CartView is the API-facing snapshot of an open register cart.
type CartView struct {
	Lines  []CartLine `json:"lines"`
	Totals Totals     `json:"totals"`
}

// CheckoutResult bundles the receipt with its printable rendering.
type CheckoutResult struct {
	Receipt *Receipt `json:"receipt"`
	Ticket  string   `json:"ticket"`
}

// Service drives one persisted cart per register through the checkout flow.
type Service interface {
	GetCart(ctx context.Context, registerID string) (*CartView, error)
	AddItem(ctx context.Context, registerID string, productID uuid.UUID) (*CartView, error)
	ChangeQuantity(ctx context.Context, registerID string, productID uuid.UUID, delta int) (*CartView, error)
	RemoveItem(ctx context.Context, registerID string, productID uuid.UUID) (*CartView, error)
	Checkout(ctx context.Context, registerID, seller string, customer Customer, voucherType enums.VoucherType) (*CheckoutResult, error)
}

type service struct {
	store    Store
	products productLoader
	storeCfg config.StoreConfig
	now      func() time.Time
}

// NewService wires the checkout engine to its collaborators.
func NewService(store Store, products productLoader, storeCfg config.StoreConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		store:    store,
		products: products,
		storeCfg: storeCfg,
		now:      time.Now,
	}, nil
}

func (s *service) GetCart(ctx context.Context, registerID string) (*CartView, error) {
	cart, err := s.loadCart(ctx, registerID)
	if err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

func (s *service) AddItem(ctx context.Context, registerID string, productID uuid.UUID) (*CartView, error) {
	product, err := s.products.GetActiveByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadCart(ctx, registerID)
	if err != nil {
		return nil, err
	}
	cart.AddItem(snapshotOf(product))
	if err := s.store.Save(ctx, registerID, cart.Lines()); err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

func (s *service) ChangeQuantity(ctx context.Context, registerID string, productID uuid.UUID, delta int) (*CartView, error) {
	cart, err := s.loadCart(ctx, registerID)
	if err != nil {
		return nil, err
	}
	cart.ChangeQuantity(productID, delta)
	if err := s.store.Save(ctx, registerID, cart.Lines()); err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

func (s *service) RemoveItem(ctx context.Context, registerID string, productID uuid.UUID) (*CartView, error) {
	cart, err := s.loadCart(ctx, registerID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	if err := s.store.Save(ctx, registerID, cart.Lines()); err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

func (s *service) Checkout(ctx context.Context, registerID, seller string, customer Customer, voucherType enums.VoucherType) (*CheckoutResult, error) {
	if !voucherType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid voucher type")
	}

	cart, err := s.loadCart(ctx, registerID)
	if err != nil {
		return nil, err
	}

	receipt, err := cart.Confirm(customer, voucherType, s.now())
	if err != nil {
		return nil, err
	}
	receipt.Seller = strings.TrimSpace(seller)

	if err := s.store.Drop(ctx, registerID); err != nil {
		return nil, err
	}
	return &CheckoutResult{
		Receipt: receipt,
		Ticket:  FormatReceipt(*receipt, s.storeCfg),
	}, nil
}

func (s *service) loadCart(ctx context.Context, registerID string) (*Cart, error) {
	lines, err := s.store.Load(ctx, registerID)
	if err != nil {
		return nil, err
	}
	cart := NewCart()
	cart.Restore(lines)
	return cart, nil
}

func viewOf(cart *Cart) *CartView {
	return &CartView{
		Lines:  cart.Lines(),
		Totals: cart.Totals(),
	}
}

func snapshotOf(p *models.Product) CatalogItem {
	item := CatalogItem{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		MeasureUnit: p.MeasureUnit,
		UnitPrice:   p.SalePrice,
		Stock:       p.Stock,
	}
	if p.Brand != nil {
		item.Brand = *p.Brand
	}
	if p.Category != nil {
		item.Category = p.Category.Name
	}
	return item
}
