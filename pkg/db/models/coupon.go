package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/enums"
)

// Coupon is an admin-managed discount keyed by its unique code. Amount coupons
// carry a value in cents; percentage coupons carry a value in [0, 100].
type Coupon struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	Code          string                   `gorm:"column:code;not null;uniqueIndex:idx_coupons_code"`
	Name          string                   `gorm:"column:name;not null"`
	DiscountType  enums.CouponDiscountType `gorm:"column:discount_type;not null"`
	DiscountValue int64                    `gorm:"column:discount_value;not null"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Coupon) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
