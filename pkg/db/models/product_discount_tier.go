package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductDiscountTier captures a quantity-based discount rate per product.
// Rate is a fraction in [0, 1].
type ProductDiscountTier struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	MinQty    int       `gorm:"column:min_qty;not null"`
	Rate      float64   `gorm:"column:rate;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (t *ProductDiscountTier) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
