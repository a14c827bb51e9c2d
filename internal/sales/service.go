package sales

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/construplaza/construplaza-backend/internal/checkout"
	product "github.com/construplaza/construplaza-backend/internal/products"
	"github.com/construplaza/construplaza-backend/pkg/db/models"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/metrics"
	"github.com/construplaza/construplaza-backend/pkg/pagination"
)

// RecordSaleInput holds the validated payload to persist a completed sale.
type RecordSaleInput struct {
	VoucherType   enums.VoucherType
	PaymentMethod enums.PaymentMethod
	CustomerID    *uuid.UUID
	AmountPaid    *decimal.Decimal
	Lines         []RecordSaleLine
}

// RecordSaleLine identifies one sold product and its quantity.
type RecordSaleLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// Service records sales and serves per-seller history.
type Service interface {
	RecordSale(ctx context.Context, sellerID uuid.UUID, input RecordSaleInput) (*SaleDTO, error)
	ListSellerSales(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*SalesPageDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindAnonymous(ctx context.Context) (*models.Customer, error)
}

type auditRecorder interface {
	Record(ctx context.Context, actorID uuid.UUID, action enums.AuditAction, entity enums.AuditEntity, entityID *uuid.UUID, detail any) error
}

type service struct {
	repo      *Repository
	products  *product.Repository
	customers customerResolver
	tx        txRunner
	audit     auditRecorder
	metrics   *metrics.POSMetrics
	now       func() time.Time

	mu         sync.Mutex
	lastNumber int64
}

// NewService constructs a sales service instance.
func NewService(repo *Repository, products *product.Repository, customers customerResolver, tx txRunner, audit auditRecorder, posMetrics *metrics.POSMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer resolver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{
		repo:      repo,
		products:  products,
		customers: customers,
		tx:        tx,
		audit:     audit,
		metrics:   posMetrics,
		now:       time.Now,
	}, nil
}

// RecordSale decrements stock and persists the voucher inside one
// transaction. The correlative is the issue timestamp in milliseconds.
func (s *service) RecordSale(ctx context.Context, sellerID uuid.UUID, input RecordSaleInput) (*SaleDTO, error) {
	start := s.now()

	sale, err := s.recordSale(ctx, sellerID, input, start)
	if err != nil {
		s.metrics.IncFailure(failureReason(err))
		return nil, err
	}

	s.metrics.IncSale(sale.VoucherType.String(), sale.PaymentMethod.String())
	total, _ := sale.Total.Float64()
	s.metrics.AddRevenue(sale.VoucherType.String(), total)
	s.metrics.ObserveCheckout(sale.PaymentMethod.String(), s.now().Sub(start))

	return NewSaleDTO(sale), nil
}

func (s *service) recordSale(ctx context.Context, sellerID uuid.UUID, input RecordSaleInput, issuedAt time.Time) (*models.Sale, error) {
	if !input.VoucherType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid voucher type")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale has no lines")
	}
	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
		}
	}

	customer, err := s.resolveCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if input.VoucherType == enums.VoucherTypeFactura && customer.DocumentType != enums.DocumentTypeRUC {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "factura requires a RUC customer")
	}

	var sale *models.Sale
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.products.WithTx(tx)
		txSales := s.repo.WithTx(tx)

		cartLines := make([]checkout.CartLine, 0, len(input.Lines))
		saleLines := make([]models.SaleLine, 0, len(input.Lines))
		for _, line := range input.Lines {
			p, err := txProducts.GetActiveByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}

			ok, err := txProducts.DecrementStock(ctx, p.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("insufficient stock for %s", p.SKU)).
					WithDetails(map[string]any{"sku": p.SKU, "available": p.Stock})
			}

			cartLines = append(cartLines, checkout.CartLine{
				Item:     checkout.CatalogItem{ID: p.ID, UnitPrice: p.SalePrice},
				Quantity: line.Quantity,
			})
			saleLines = append(saleLines, models.SaleLine{
				ID:          uuid.New(),
				ProductID:   p.ID,
				ProductSKU:  p.SKU,
				ProductName: p.Name,
				UnitPrice:   p.SalePrice,
				Quantity:    line.Quantity,
				LineTotal:   p.SalePrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			})
		}

		totals := checkout.ComputeTotals(cartLines)
		amountPaid, change, err := settlePayment(input.PaymentMethod, input.AmountPaid, totals.Total)
		if err != nil {
			return err
		}

		record := &models.Sale{
			ID:            uuid.New(),
			Series:        input.VoucherType.Serie(),
			Number:        s.nextNumber(issuedAt),
			VoucherType:   input.VoucherType,
			PaymentMethod: input.PaymentMethod,
			CustomerID:    customer.ID,
			SellerID:      sellerID,
			Subtotal:      totals.Subtotal.Round(2),
			Tax:           totals.Tax,
			Total:         totals.Total,
			AmountPaid:    amountPaid,
			Change:        change,
			Lines:         saleLines,
			IssuedAt:      issuedAt.UTC(),
		}
		created, err := txSales.Create(ctx, record)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist sale")
		}
		created.Customer = customer
		sale = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, sellerID, enums.AuditActionVenta, enums.AuditEntityVenta, &sale.ID, map[string]any{
		"voucher": sale.VoucherNumber(),
		"total":   sale.Total.StringFixed(2),
	}); err != nil {
		return nil, err
	}
	return sale, nil
}

// nextNumber yields the issue timestamp in milliseconds, bumped past the
// previous value so two sales in the same millisecond stay distinct.
func (s *service) nextNumber(issuedAt time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	number := issuedAt.UnixMilli()
	if number <= s.lastNumber {
		number = s.lastNumber + 1
	}
	s.lastNumber = number
	return number
}

func (s *service) ListSellerSales(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*SalesPageDTO, error) {
	page, err := s.repo.ListBySeller(ctx, sellerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller sales")
	}

	dtos := make([]SaleDTO, len(page.Sales))
	for i := range page.Sales {
		dtos[i] = *NewSaleDTO(&page.Sales[i])
	}
	return &SalesPageDTO{Sales: dtos, NextCursor: page.NextCursor}, nil
}

func (s *service) resolveCustomer(ctx context.Context, customerID *uuid.UUID) (*models.Customer, error) {
	if customerID == nil {
		customer, err := s.customers.FindAnonymous(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve anonymous customer")
		}
		return customer, nil
	}

	customer, err := s.customers.FindByID(ctx, *customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

// settlePayment enforces tendered cash rules. Cash sales must cover the
// total and produce the change, every other method settles exactly.
func settlePayment(method enums.PaymentMethod, amountPaid *decimal.Decimal, total decimal.Decimal) (*decimal.Decimal, *decimal.Decimal, error) {
	if !method.RequiresTenderedAmount() {
		return nil, nil, nil
	}
	if amountPaid == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid required for cash sales")
	}
	if amountPaid.LessThan(total) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid is below the total")
	}
	change := amountPaid.Sub(total).Round(2)
	return amountPaid, &change, nil
}

func failureReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return "internal"
}
