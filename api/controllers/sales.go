package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/construplaza/construplaza-backend/api/middleware"
	"github.com/construplaza/construplaza-backend/api/responses"
	"github.com/construplaza/construplaza-backend/api/validators"
	"github.com/construplaza/construplaza-backend/internal/sales"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/logger"
	"github.com/construplaza/construplaza-backend/pkg/pagination"
)

type recordSaleLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type recordSaleRequest struct {
	VoucherType   string                  `json:"voucher_type" validate:"required"`
	PaymentMethod string                  `json:"payment_method" validate:"required"`
	CustomerID    *uuid.UUID              `json:"customer_id,omitempty"`
	AmountPaid    *decimal.Decimal        `json:"amount_paid,omitempty"`
	Lines         []recordSaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RecordSale persists a sale on behalf of the signed-in seller.
func RecordSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		sellerID := middleware.ActorIDFromContext(r.Context())
		if sellerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body recordSaleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := sales.RecordSaleInput{
			VoucherType:   enums.VoucherType(body.VoucherType),
			PaymentMethod: enums.PaymentMethod(body.PaymentMethod),
			CustomerID:    body.CustomerID,
			AmountPaid:    body.AmountPaid,
		}
		for _, line := range body.Lines {
			input.Lines = append(input.Lines, sales.RecordSaleLine{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}

		sale, err := svc.RecordSale(r.Context(), sellerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

// MySales pages through the seller's own history, newest first.
func MySales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		sellerID := middleware.ActorIDFromContext(r.Context())
		if sellerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListSellerSales(r.Context(), sellerID, pagination.Params{
			Limit:  limit,
			Cursor: validators.SanitizeString(r.URL.Query().Get("cursor"), 200),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
