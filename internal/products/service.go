package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-backend/internal/pricing"
	"github.com/storefrontlabs/storefront-backend/pkg/db"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListPage, error)
	GetSnapshot(ctx context.Context, productID uuid.UUID) (*pricing.ProductSnapshot, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Description   *string
	PriceCents    int64
	Stock         int
	IsRecommended bool
	DiscountTiers []DiscountTierInput
}

// DiscountTierInput defines a tiered discount rate for a given min quantity.
type DiscountTierInput struct {
	MinQty int
	Rate   float64
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	PriceCents    *int64
	Stock         *int
	IsRecommended *bool
	DiscountTiers *[]DiscountTierInput
}

// ListProductsInput carries the catalog listing parameters.
type ListProductsInput struct {
	Pagination  pagination.Params
	Search      string
	Recommended *bool
}

// ProductListPage is one page of catalog DTOs plus the total count.
type ProductListPage struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
}

// service implements the catalog service.
type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// CreateProduct creates the product with its discount tiers.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePriceCents(input.PriceCents); err != nil {
		return nil, err
	}
	if err := validateStock(input.Stock); err != nil {
		return nil, err
	}
	if err := ensureUniqueTiers(input.DiscountTiers); err != nil {
		return nil, err
	}
	for _, tier := range input.DiscountTiers {
		if err := validateTier(tier); err != nil {
			return nil, err
		}
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			Name:          name,
			Description:   input.Description,
			PriceCents:    input.PriceCents,
			Stock:         input.Stock,
			IsRecommended: input.IsRecommended,
		}
		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		if len(input.DiscountTiers) > 0 {
			if err := txRepo.ReplaceDiscountTiers(ctx, created.ID, tierRows(created.ID, input.DiscountTiers)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert discount tiers")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	created, err := s.repo.FindByID(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct updates an existing product and replaces its tiers when provided.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.PriceCents != nil {
		if err := validatePriceCents(*input.PriceCents); err != nil {
			return nil, err
		}
	}
	if input.Stock != nil {
		if err := validateStock(*input.Stock); err != nil {
			return nil, err
		}
	}
	if input.DiscountTiers != nil {
		if err := ensureUniqueTiers(*input.DiscountTiers); err != nil {
			return nil, err
		}
		for _, tier := range *input.DiscountTiers {
			if err := validateTier(tier); err != nil {
				return nil, err
			}
		}
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		applyUpdateToProduct(product, input)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return err
		}
		if input.DiscountTiers != nil {
			if err := txRepo.ReplaceDiscountTiers(ctx, product.ID, tierRows(product.ID, *input.DiscountTiers)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product and relies on FK cascades for its tiers.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// GetProduct loads one product with its discount tiers.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// GetSnapshot loads the product in the shape the pricing engine consumes.
func (s *service) GetSnapshot(ctx context.Context, productID uuid.UUID) (*pricing.ProductSnapshot, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	snap := Snapshot(product)
	return &snap, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListPage, error) {
	result, err := s.repo.ListProducts(ctx, productListQuery{
		Pagination:  input.Pagination,
		Search:      input.Search,
		Recommended: input.Recommended,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &ProductListPage{
		Products: make([]ProductDTO, 0, len(result.Products)),
		Total:    result.Total,
	}
	for i := range result.Products {
		page.Products = append(page.Products, *NewProductDTO(&result.Products[i]))
	}
	return page, nil
}

func tierRows(productID uuid.UUID, tiers []DiscountTierInput) []models.ProductDiscountTier {
	rows := make([]models.ProductDiscountTier, len(tiers))
	for i, tier := range tiers {
		rows[i] = models.ProductDiscountTier{
			ProductID: productID,
			MinQty:    tier.MinQty,
			Rate:      tier.Rate,
		}
	}
	return rows
}

func ensureUniqueTiers(tiers []DiscountTierInput) error {
	seen := make(map[int]struct{}, len(tiers))
	for _, tier := range tiers {
		if _, dup := seen[tier.MinQty]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate discount tier for min_qty %d", tier.MinQty))
		}
		seen[tier.MinQty] = struct{}{}
	}
	return nil
}

func validateTier(tier DiscountTierInput) error {
	if tier.MinQty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount tier min_qty must be at least 1")
	}
	if tier.Rate < 0 || tier.Rate > 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount tier rate must be between 0 and 1")
	}
	return nil
}

func validatePriceCents(value int64) error {
	if value < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents cannot be negative")
	}
	return nil
}

func validateStock(value int) error {
	if value < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.IsRecommended != nil {
		product.IsRecommended = *input.IsRecommended
	}
}
