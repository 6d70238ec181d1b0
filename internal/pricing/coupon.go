package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/storefront-backend/pkg/enums"
)

// minPercentageCouponCents is the smallest after-discount total a percentage
// coupon can be applied to. Amount coupons have no minimum.
const minPercentageCouponCents = 10000

// Coupon is the catalog snapshot used for pricing. Amount coupons carry a
// value in cents; percentage coupons carry a value in [0, 100].
type Coupon struct {
	Code          string                   `json:"code"`
	Name          string                   `json:"name"`
	DiscountType  enums.CouponDiscountType `json:"discount_type"`
	DiscountValue int64                    `json:"discount_value"`
}

// CouponApplicable reports whether the coupon may be applied at the given
// after-discount total.
func CouponApplicable(totalCents int64, coupon Coupon) bool {
	if coupon.DiscountType == enums.CouponDiscountPercentage && totalCents < minPercentageCouponCents {
		return false
	}
	return true
}

// ApplyCoupon returns the total after the coupon's discount. Amount coupons
// never push the total below zero; percentage coupons round half away from
// zero like line totals.
func ApplyCoupon(totalCents int64, coupon Coupon) int64 {
	if coupon.DiscountType == enums.CouponDiscountAmount {
		discounted := totalCents - coupon.DiscountValue
		if discounted < 0 {
			return 0
		}
		return discounted
	}

	remaining := decimal.NewFromInt(100 - coupon.DiscountValue)
	return decimal.NewFromInt(totalCents).
		Mul(remaining).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
