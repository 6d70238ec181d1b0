package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
)

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	product := &models.Product{
		Name:       "Repo Test Tee",
		PriceCents: 12500,
		Stock:      8,
	}
	created, err := repo.CreateProduct(ctx, product)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected product id to be generated")
	}

	tiers := []models.ProductDiscountTier{
		{ProductID: created.ID, MinQty: 20, Rate: 0.2},
		{ProductID: created.ID, MinQty: 10, Rate: 0.1},
	}
	if err := repo.ReplaceDiscountTiers(ctx, created.ID, tiers); err != nil {
		t.Fatalf("replace tiers: %v", err)
	}

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if len(fetched.DiscountTiers) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(fetched.DiscountTiers))
	}
	if fetched.DiscountTiers[0].MinQty != 10 {
		t.Fatalf("expected tiers ordered by min_qty, got first %d", fetched.DiscountTiers[0].MinQty)
	}

	created.Name = "Updated Tee"
	created.Stock = 3
	if _, err := repo.UpdateProduct(ctx, created); err != nil {
		t.Fatalf("update product: %v", err)
	}
	updated, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if updated.Name != "Updated Tee" || updated.Stock != 3 {
		t.Fatalf("expected updated fields, got %q stock=%d", updated.Name, updated.Stock)
	}

	if err := repo.ReplaceDiscountTiers(ctx, created.ID, nil); err != nil {
		t.Fatalf("clear tiers: %v", err)
	}
	cleared, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find after clearing tiers: %v", err)
	}
	if len(cleared.DiscountTiers) != 0 {
		t.Fatalf("expected no tiers, got %d", len(cleared.DiscountTiers))
	}

	if err := repo.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
}

func TestRepositoryListProductsSearch(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	desc := "Waxed cotton shell"
	seed := []*models.Product{
		{Name: "Search Flannel", PriceCents: 9000, Stock: 4},
		{Name: "Search Jacket", Description: &desc, PriceCents: 30000, Stock: 2, IsRecommended: true},
	}
	for _, p := range seed {
		if _, err := repo.CreateProduct(ctx, p); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	result, err := repo.ListProducts(ctx, productListQuery{
		Pagination: pagination.Params{Limit: 10},
		Search:     "waxed",
	})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if result.Total != 1 || len(result.Products) != 1 {
		t.Fatalf("expected one description match, got total=%d rows=%d", result.Total, len(result.Products))
	}
	if result.Products[0].Name != "Search Jacket" {
		t.Fatalf("unexpected match %q", result.Products[0].Name)
	}

	recommended := true
	result, err = repo.ListProducts(ctx, productListQuery{
		Pagination:  pagination.Params{Limit: 10},
		Search:      "search",
		Recommended: &recommended,
	})
	if err != nil {
		t.Fatalf("list recommended: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected one recommended match, got %d", result.Total)
	}
}
