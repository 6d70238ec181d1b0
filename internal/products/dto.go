package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-backend/internal/pricing"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	PriceCents    int64             `json:"price_cents"`
	Stock         int               `json:"stock"`
	IsRecommended bool              `json:"is_recommended"`
	DiscountTiers []DiscountTierDTO `json:"discount_tiers"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// DiscountTierDTO represents a volume discount rate for a minimum quantity.
type DiscountTierDTO struct {
	ID        uuid.UUID `json:"id"`
	MinQty    int       `json:"min_qty"`
	Rate      float64   `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		PriceCents:    product.PriceCents,
		Stock:         product.Stock,
		IsRecommended: product.IsRecommended,
		DiscountTiers: make([]DiscountTierDTO, 0, len(product.DiscountTiers)),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	for _, tier := range product.DiscountTiers {
		dto.DiscountTiers = append(dto.DiscountTiers, DiscountTierDTO{
			ID:        tier.ID,
			MinQty:    tier.MinQty,
			Rate:      tier.Rate,
			CreatedAt: tier.CreatedAt,
		})
	}
	return dto
}

// Snapshot converts the persisted model into the shape the pricing engine consumes.
func Snapshot(product *models.Product) pricing.ProductSnapshot {
	tiers := make([]pricing.DiscountTier, 0, len(product.DiscountTiers))
	for _, tier := range product.DiscountTiers {
		tiers = append(tiers, pricing.DiscountTier{MinQty: tier.MinQty, Rate: tier.Rate})
	}
	return pricing.ProductSnapshot{
		ID:         product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Stock:      product.Stock,
		Tiers:      tiers,
	}
}
