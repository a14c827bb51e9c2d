package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/construplaza/construplaza-backend/api/middleware"
	"github.com/construplaza/construplaza-backend/api/responses"
	"github.com/construplaza/construplaza-backend/api/validators"
	"github.com/construplaza/construplaza-backend/internal/checkout"
	"github.com/construplaza/construplaza-backend/internal/sales"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type changeCartItemRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type posCheckoutCustomer struct {
	Anonymous      bool   `json:"anonymous"`
	DocumentType   string `json:"document_type,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
	Names          string `json:"names,omitempty"`
	LegalName      string `json:"legal_name,omitempty"`
	Address        string `json:"address,omitempty"`
}

type posCheckoutRequest struct {
	VoucherType   string              `json:"voucher_type" validate:"required"`
	PaymentMethod string              `json:"payment_method" validate:"required"`
	AmountPaid    *decimal.Decimal    `json:"amount_paid,omitempty"`
	Customer      posCheckoutCustomer `json:"customer"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty"`
}

// posCheckoutResponse carries the receipt plus the persisted sale. Warning is
// set when the receipt was issued but recording failed; the receipt stands.
type posCheckoutResponse struct {
	Receipt *checkout.Receipt `json:"receipt"`
	Ticket  string            `json:"ticket"`
	Sale    *sales.SaleDTO    `json:"sale,omitempty"`
	Warning string            `json:"warning,omitempty"`
}

// registerIDFromContext keys one cart per signed-in seller.
func registerIDFromContext(r *http.Request) (string, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return userID, nil
}

func POSGetCart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		registerID, err := registerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetCart(r.Context(), registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// POSAddItem puts one unit of the product into the seller's cart.
func POSAddItem(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		registerID, err := registerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddItem(r.Context(), registerID, body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func POSChangeQuantity(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		registerID, err := registerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body changeCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ChangeQuantity(r.Context(), registerID, productID, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func POSRemoveItem(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		registerID, err := registerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RemoveItem(r.Context(), registerID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// POSCheckout confirms the cart into a receipt, then records the sale. A
// recording failure never invalidates the issued receipt; it is returned with
// a warning so the seller can re-submit from history.
func POSCheckout(svc checkout.Service, recorder sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		registerID, err := registerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body posCheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		voucherType := enums.VoucherType(body.VoucherType)
		paymentMethod := enums.PaymentMethod(body.PaymentMethod)
		if !paymentMethod.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method"))
			return
		}

		result, err := svc.Checkout(r.Context(), registerID, middleware.UsernameFromContext(r.Context()), checkout.Customer{
			Anonymous:      body.Customer.Anonymous,
			DocumentType:   enums.DocumentType(body.Customer.DocumentType),
			DocumentNumber: body.Customer.DocumentNumber,
			Names:          body.Customer.Names,
			LegalName:      body.Customer.LegalName,
			Address:        body.Customer.Address,
		}, voucherType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := posCheckoutResponse{
			Receipt: result.Receipt,
			Ticket:  result.Ticket,
		}

		input := sales.RecordSaleInput{
			VoucherType:   voucherType,
			PaymentMethod: paymentMethod,
			CustomerID:    body.CustomerID,
			AmountPaid:    body.AmountPaid,
		}
		for _, line := range result.Receipt.Lines {
			input.Lines = append(input.Lines, sales.RecordSaleLine{
				ProductID: line.Item.ID,
				Quantity:  line.Quantity,
			})
		}

		sale, err := recordCheckoutSale(r, recorder, input)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "pos.sale_record_failed", err)
			}
			resp.Warning = "receipt issued but the sale could not be recorded"
		} else {
			resp.Sale = sale
		}

		responses.WriteSuccess(w, resp)
	}
}

func recordCheckoutSale(r *http.Request, recorder sales.Service, input sales.RecordSaleInput) (*sales.SaleDTO, error) {
	if recorder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable")
	}
	sellerID := middleware.ActorIDFromContext(r.Context())
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return recorder.RecordSale(r.Context(), sellerID, input)
}
