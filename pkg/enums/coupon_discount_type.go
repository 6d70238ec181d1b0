package enums

import "fmt"

// CouponDiscountType distinguishes fixed-amount coupons from percentage coupons.
type CouponDiscountType string

const (
	CouponDiscountAmount     CouponDiscountType = "amount"
	CouponDiscountPercentage CouponDiscountType = "percentage"
)

var validCouponDiscountTypes = []CouponDiscountType{
	CouponDiscountAmount,
	CouponDiscountPercentage,
}

// String implements fmt.Stringer.
func (c CouponDiscountType) String() string {
	return string(c)
}

// IsValid reports whether the discount type is recognized.
func (c CouponDiscountType) IsValid() bool {
	for _, candidate := range validCouponDiscountTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCouponDiscountType converts a raw string into a CouponDiscountType.
func ParseCouponDiscountType(value string) (CouponDiscountType, error) {
	for _, candidate := range validCouponDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon discount type %q", value)
}
