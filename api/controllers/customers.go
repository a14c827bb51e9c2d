package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/construplaza/construplaza-backend/api/middleware"
	"github.com/construplaza/construplaza-backend/api/responses"
	"github.com/construplaza/construplaza-backend/api/validators"
	customer "github.com/construplaza/construplaza-backend/internal/customers"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
	"github.com/construplaza/construplaza-backend/pkg/logger"
)

type createCustomerRequest struct {
	DocumentType   string  `json:"document_type" validate:"required"`
	DocumentNumber string  `json:"document_number" validate:"required,max=11"`
	Names          *string `json:"names,omitempty"`
	LegalName      *string `json:"legal_name,omitempty"`
	Address        *string `json:"address,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
}

type updateCustomerRequest struct {
	Names     *string `json:"names,omitempty"`
	LegalName *string `json:"legal_name,omitempty"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

func ListCustomers(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		items, err := svc.ListCustomers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// GetCustomerByDocument looks a customer up by DNI or RUC for the POS screen.
func GetCustomerByDocument(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		number := validators.SanitizeString(chi.URLParam(r, "documentNumber"), 11)
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "document number is required"))
			return
		}

		item, err := svc.GetByDocument(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func CreateCustomer(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var body createCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateCustomer(r.Context(), middleware.ActorIDFromContext(r.Context()), customer.CreateCustomerInput{
			DocumentType:   enums.DocumentType(body.DocumentType),
			DocumentNumber: body.DocumentNumber,
			Names:          body.Names,
			LegalName:      body.LegalName,
			Address:        body.Address,
			Phone:          body.Phone,
			Email:          body.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func UpdateCustomer(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "customerId"), "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateCustomer(r.Context(), middleware.ActorIDFromContext(r.Context()), id, customer.UpdateCustomerInput{
			Names:     body.Names,
			LegalName: body.LegalName,
			Address:   body.Address,
			Phone:     body.Phone,
			Email:     body.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DeleteCustomer anonymizes the record; sales history keeps pointing at it.
func DeleteCustomer(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "customerId"), "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCustomer(r.Context(), middleware.ActorIDFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "anonymized"})
	}
}
