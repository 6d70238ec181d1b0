package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// bulkQtyThreshold is the line quantity that triggers the cart-wide bonus.
	bulkQtyThreshold = 10
	// bulkBonusRate is added to every item's discount once any line qualifies.
	bulkBonusRate = 0.05
	// maxDiscountRate caps the effective discount regardless of inputs.
	maxDiscountRate = 0.5
)

// DiscountTier grants a discount rate once a line reaches MinQty units.
type DiscountTier struct {
	MinQty int     `json:"min_qty"`
	Rate   float64 `json:"rate"`
}

// ProductSnapshot is the catalog data captured into a cart line. It is a copy,
// not a live reference: later catalog edits do not change lines already priced.
type ProductSnapshot struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	PriceCents int64          `json:"price_cents"`
	Stock      int            `json:"stock"`
	Tiers      []DiscountTier `json:"tiers,omitempty"`
}

// CartItem is one cart line. Quantity is always >= 1; lines that would drop to
// zero or below are removed instead.
type CartItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart is an ordered list of lines, unique by product id.
type Cart []CartItem

// Totals carries the cart totals before and after item-level discounts.
type Totals struct {
	BeforeDiscountCents int64 `json:"before_discount_cents"`
	AfterDiscountCents  int64 `json:"after_discount_cents"`
}

// BaseDiscountRate returns the best tier rate the line qualifies for. When
// several tiers qualify the greatest rate wins, not the greatest quantity.
func BaseDiscountRate(item CartItem) float64 {
	best := 0.0
	for _, tier := range item.Product.Tiers {
		if item.Quantity >= tier.MinQty && tier.Rate > best {
			best = tier.Rate
		}
	}
	return best
}

// BulkBonusRate returns the cart-wide bonus: 0.05 when any line has quantity
// >= 10, else 0.
func BulkBonusRate(cart Cart) float64 {
	for _, item := range cart {
		if item.Quantity >= bulkQtyThreshold {
			return bulkBonusRate
		}
	}
	return 0
}

// EffectiveDiscountRate combines the line's tier rate with the cart-wide
// bonus, capped at 50%.
func EffectiveDiscountRate(item CartItem, cart Cart) float64 {
	rate := BaseDiscountRate(item) + BulkBonusRate(cart)
	if rate > maxDiscountRate {
		return maxDiscountRate
	}
	return rate
}

// ItemTotalCents prices one line after its effective discount. Rounding is
// half away from zero and happens per line.
func ItemTotalCents(item CartItem, cart Cart) int64 {
	rate := EffectiveDiscountRate(item, cart)
	gross := decimal.NewFromInt(item.Product.PriceCents * int64(item.Quantity))
	return gross.Mul(decimal.NewFromFloat(1 - rate)).Round(0).IntPart()
}

// ComputeTotals sums the cart. The after-discount total is the sum of the
// already-rounded line totals; it is never re-rounded, so for carts with
// several lines it can differ from rounding the unrounded sum.
func ComputeTotals(cart Cart) Totals {
	var totals Totals
	for _, item := range cart {
		totals.BeforeDiscountCents += item.Product.PriceCents * int64(item.Quantity)
		totals.AfterDiscountCents += ItemTotalCents(item, cart)
	}
	return totals
}

// RemainingStock returns the product's stock minus whatever the cart already
// holds for it.
func RemainingStock(cart Cart, product ProductSnapshot) int {
	for _, item := range cart {
		if item.Product.ID == product.ID {
			return product.Stock - item.Quantity
		}
	}
	return product.Stock
}

// WouldExceedStock reports whether adding one more unit of product would push
// the cart past the product's stock.
func WouldExceedStock(cart Cart, product ProductSnapshot) bool {
	for _, item := range cart {
		if item.Product.ID == product.ID {
			return item.Quantity+1 > product.Stock
		}
	}
	return false
}

// AddItem returns a new cart with one more unit of product. The input cart is
// never mutated. Stock enforcement is the caller's job.
func AddItem(cart Cart, product ProductSnapshot) Cart {
	next := make(Cart, 0, len(cart)+1)
	found := false
	for _, item := range cart {
		if item.Product.ID == product.ID {
			item.Quantity++
			found = true
		}
		next = append(next, item)
	}
	if !found {
		next = append(next, CartItem{Product: product, Quantity: 1})
	}
	return next
}

// RemoveItem returns a new cart without the given product. Unknown ids are a
// no-op.
func RemoveItem(cart Cart, productID uuid.UUID) Cart {
	next := make(Cart, 0, len(cart))
	for _, item := range cart {
		if item.Product.ID != productID {
			next = append(next, item)
		}
	}
	return next
}

// UpdateQuantity returns a new cart with the line's quantity replaced.
// Quantities <= 0 remove the line; unknown ids leave the cart unchanged.
func UpdateQuantity(cart Cart, productID uuid.UUID, quantity int) Cart {
	if quantity <= 0 {
		return RemoveItem(cart, productID)
	}
	next := make(Cart, 0, len(cart))
	for _, item := range cart {
		if item.Product.ID == productID {
			item.Quantity = quantity
		}
		next = append(next, item)
	}
	return next
}
