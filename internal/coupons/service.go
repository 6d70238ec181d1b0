package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-backend/internal/pricing"
	"github.com/storefrontlabs/storefront-backend/pkg/db"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

const couponCodeIndex = "idx_coupons_code"

// Service exposes admin coupon management plus the lookup the cart uses.
type Service interface {
	CreateCoupon(ctx context.Context, input CreateCouponInput) (*CouponDTO, error)
	DeleteCoupon(ctx context.Context, couponID uuid.UUID) error
	ListCoupons(ctx context.Context) ([]CouponDTO, error)
	GetByCode(ctx context.Context, code string) (*pricing.Coupon, error)
}

// CreateCouponInput holds the validated payload to create a coupon.
type CreateCouponInput struct {
	Code          string
	Name          string
	DiscountType  enums.CouponDiscountType
	DiscountValue int64
}

// CouponDTO represents the coupon payload returned to clients.
type CouponDTO struct {
	ID            uuid.UUID                `json:"id"`
	Code          string                   `json:"code"`
	Name          string                   `json:"name"`
	DiscountType  enums.CouponDiscountType `json:"discount_type"`
	DiscountValue int64                    `json:"discount_value"`
	CreatedAt     time.Time                `json:"created_at"`
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a coupon service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// CreateCoupon validates and inserts a coupon. Codes are normalized to upper
// case so lookups stay case-insensitive.
func (s *service) CreateCoupon(ctx context.Context, input CreateCouponInput) (*CouponDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateDiscount(input.DiscountType, input.DiscountValue); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateCoupon, "coupon code already exists").
			WithDetails(map[string]any{"code": code})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup coupon code")
	}

	coupon := &models.Coupon{
		Code:          code,
		Name:          name,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
	}
	created, err := s.repo.CreateCoupon(ctx, coupon)
	if err != nil {
		// concurrent create can still race past the pre-check
		if db.IsUniqueViolation(err, couponCodeIndex) {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateCoupon, "coupon code already exists").
				WithDetails(map[string]any{"code": code})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert coupon")
	}
	return newCouponDTO(created), nil
}

// DeleteCoupon removes the coupon. Carts holding its code drop it on next read.
func (s *service) DeleteCoupon(ctx context.Context, couponID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, couponID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if err := s.repo.DeleteCoupon(ctx, couponID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	return nil
}

func (s *service) ListCoupons(ctx context.Context) ([]CouponDTO, error) {
	rows, err := s.repo.ListCoupons(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	out := make([]CouponDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *newCouponDTO(&rows[i]))
	}
	return out, nil
}

// GetByCode resolves a coupon code to its pricing snapshot.
func (s *service) GetByCode(ctx context.Context, code string) (*pricing.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return &pricing.Coupon{
		Code:          coupon.Code,
		Name:          coupon.Name,
		DiscountType:  coupon.DiscountType,
		DiscountValue: coupon.DiscountValue,
	}, nil
}

func newCouponDTO(coupon *models.Coupon) *CouponDTO {
	return &CouponDTO{
		ID:            coupon.ID,
		Code:          coupon.Code,
		Name:          coupon.Name,
		DiscountType:  coupon.DiscountType,
		DiscountValue: coupon.DiscountValue,
		CreatedAt:     coupon.CreatedAt,
	}
}

func validateDiscount(discountType enums.CouponDiscountType, value int64) error {
	if !discountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_type must be amount or percentage")
	}
	switch discountType {
	case enums.CouponDiscountAmount:
		if value <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "amount coupons need a positive cent value")
		}
	case enums.CouponDiscountPercentage:
		if value <= 0 || value > 100 {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage coupons need a value between 1 and 100")
		}
	}
	return nil
}
