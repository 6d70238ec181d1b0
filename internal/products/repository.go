package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product with its discount tiers.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("DiscountTiers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("min_qty ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts the product row along with any attached tiers.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the scalar columns of an existing product.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).
		Model(product).
		Select("name", "description", "price_cents", "stock", "is_recommended").
		Updates(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product. Discount tiers go with it via FK cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ReplaceDiscountTiers replaces all discount tiers for the product.
func (r *Repository) ReplaceDiscountTiers(ctx context.Context, productID uuid.UUID, tiers []models.ProductDiscountTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductDiscountTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return tx.Create(&tiers).Error
}

type productListQuery struct {
	Pagination  pagination.Params
	Search      string
	Recommended *bool
}

// ProductListResult carries one page of catalog rows plus the total count.
type ProductListResult struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// ListProducts returns a page of products matching the query, newest first.
func (r *Repository) ListProducts(ctx context.Context, query productListQuery) (*ProductListResult, error) {
	params := pagination.Normalize(query.Pagination)

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)", pattern, pattern)
	}
	if query.Recommended != nil {
		qb = qb.Where("is_recommended = ?", *query.Recommended)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Product
	if err := qb.
		Preload("DiscountTiers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("min_qty ASC")
		}).
		Order("created_at DESC").Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return &ProductListResult{Products: rows, Total: total}, nil
}
