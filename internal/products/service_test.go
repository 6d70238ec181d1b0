package products

import (
	"testing"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUniqueTiers(t *testing.T) {
	err := ensureUniqueTiers([]DiscountTierInput{
		{MinQty: 10, Rate: 0.1},
		{MinQty: 20, Rate: 0.2},
	})
	assert.NoError(t, err)

	err = ensureUniqueTiers([]DiscountTierInput{
		{MinQty: 10, Rate: 0.1},
		{MinQty: 10, Rate: 0.2},
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestValidateTier(t *testing.T) {
	assert.NoError(t, validateTier(DiscountTierInput{MinQty: 1, Rate: 0}))
	assert.NoError(t, validateTier(DiscountTierInput{MinQty: 10, Rate: 1}))
	assert.Error(t, validateTier(DiscountTierInput{MinQty: 0, Rate: 0.1}))
	assert.Error(t, validateTier(DiscountTierInput{MinQty: 10, Rate: -0.01}))
	assert.Error(t, validateTier(DiscountTierInput{MinQty: 10, Rate: 1.01}))
}

func TestValidatePriceAndStock(t *testing.T) {
	assert.NoError(t, validatePriceCents(0))
	assert.Error(t, validatePriceCents(-1))
	assert.NoError(t, validateStock(0))
	assert.Error(t, validateStock(-5))
}

func TestApplyUpdateToProduct(t *testing.T) {
	desc := "old"
	product := &models.Product{
		Name:        "Tee",
		Description: &desc,
		PriceCents:  10000,
		Stock:       20,
	}

	name := "  Field Jacket  "
	price := int64(30000)
	recommended := true
	applyUpdateToProduct(product, UpdateProductInput{
		Name:          &name,
		PriceCents:    &price,
		IsRecommended: &recommended,
	})

	assert.Equal(t, "Field Jacket", product.Name)
	assert.Equal(t, int64(30000), product.PriceCents)
	assert.True(t, product.IsRecommended)
	// untouched fields keep their values
	assert.Equal(t, 20, product.Stock)
	require.NotNil(t, product.Description)
	assert.Equal(t, "old", *product.Description)
}

func TestSnapshotCarriesTiers(t *testing.T) {
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Canvas Tote",
		PriceCents: 20000,
		Stock:      10,
		DiscountTiers: []models.ProductDiscountTier{
			{MinQty: 10, Rate: 0.15},
		},
	}

	snap := Snapshot(product)
	assert.Equal(t, product.ID, snap.ID)
	assert.Equal(t, int64(20000), snap.PriceCents)
	require.Len(t, snap.Tiers, 1)
	assert.Equal(t, 10, snap.Tiers[0].MinQty)
	assert.InDelta(t, 0.15, snap.Tiers[0].Rate, 1e-9)
}

func TestNewProductDTOEmptyTiers(t *testing.T) {
	dto := NewProductDTO(&models.Product{ID: uuid.New(), Name: "Tee"})
	require.NotNil(t, dto.DiscountTiers)
	assert.Len(t, dto.DiscountTiers, 0)
}
