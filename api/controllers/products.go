package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-backend/api/responses"
	"github.com/storefrontlabs/storefront-backend/api/validators"
	"github.com/storefrontlabs/storefront-backend/internal/products"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/storefrontlabs/storefront-backend/pkg/logger"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
)

type discountTierRequest struct {
	MinQty int     `json:"min_qty" validate:"required,min=1"`
	Rate   float64 `json:"rate" validate:"gte=0,lte=1"`
}

type createProductRequest struct {
	Name          string                `json:"name" validate:"required"`
	Description   *string               `json:"description,omitempty"`
	PriceCents    int64                 `json:"price_cents" validate:"min=0"`
	Stock         int                   `json:"stock" validate:"min=0"`
	IsRecommended bool                  `json:"is_recommended"`
	DiscountTiers []discountTierRequest `json:"discount_tiers,omitempty" validate:"omitempty,dive"`
}

type updateProductRequest struct {
	Name          *string                `json:"name,omitempty"`
	Description   *string                `json:"description,omitempty"`
	PriceCents    *int64                 `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	Stock         *int                   `json:"stock,omitempty" validate:"omitempty,min=0"`
	IsRecommended *bool                  `json:"is_recommended,omitempty"`
	DiscountTiers *[]discountTierRequest `json:"discount_tiers,omitempty" validate:"omitempty,dive"`
}

// ListProducts returns a page of the catalog, optionally filtered by a search
// term or the recommended flag.
func ListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recommended, err := validators.ParseQueryBool(r, "recommended")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), products.ListProductsInput{
			Pagination:  pagination.Params{Limit: limit, Offset: offset},
			Search:      r.URL.Query().Get("q"),
			Recommended: recommended,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetProduct returns one product with its discount tiers.
func GetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CreateProduct handles admin product creation.
func CreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), products.CreateProductInput{
			Name:          payload.Name,
			Description:   payload.Description,
			PriceCents:    payload.PriceCents,
			Stock:         payload.Stock,
			IsRecommended: payload.IsRecommended,
			DiscountTiers: toTierInputs(payload.DiscountTiers),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct handles admin product updates.
func UpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.UpdateProductInput{
			Name:          payload.Name,
			Description:   payload.Description,
			PriceCents:    payload.PriceCents,
			Stock:         payload.Stock,
			IsRecommended: payload.IsRecommended,
		}
		if payload.DiscountTiers != nil {
			tiers := toTierInputs(*payload.DiscountTiers)
			input.DiscountTiers = &tiers
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct handles admin product deletion.
func DeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func toTierInputs(tiers []discountTierRequest) []products.DiscountTierInput {
	out := make([]products.DiscountTierInput, len(tiers))
	for i, tier := range tiers {
		out[i] = products.DiscountTierInput{MinQty: tier.MinQty, Rate: tier.Rate}
	}
	return out
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").WithDetails(map[string]any{"field": name})
	}
	return id, nil
}
