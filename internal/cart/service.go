package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-backend/internal/pricing"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/storefrontlabs/storefront-backend/pkg/metrics"
)

// percentageCouponMinimumCents mirrors the pricing rule so rejections can
// report the threshold to the client.
const percentageCouponMinimumCents = 10000

type productLoader interface {
	GetSnapshot(ctx context.Context, productID uuid.UUID) (*pricing.ProductSnapshot, error)
}

type couponLoader interface {
	GetByCode(ctx context.Context, code string) (*pricing.Coupon, error)
}

type notifier interface {
	Push(ctx context.Context, sessionID, message string, severity enums.NotificationSeverity)
}

// Service exposes the session cart operations.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
	AddToCart(ctx context.Context, sessionID string, productID uuid.UUID) (*CartView, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*CartView, error)
	RemoveFromCart(ctx context.Context, sessionID string, productID uuid.UUID) (*CartView, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) (*CartView, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*CartView, error)
	CompleteOrder(ctx context.Context, sessionID string) (*OrderConfirmation, error)
}

// ItemView is one cart line with its computed totals.
type ItemView struct {
	Product        pricing.ProductSnapshot `json:"product"`
	Quantity       int                     `json:"quantity"`
	DiscountRate   float64                 `json:"discount_rate"`
	LineTotalCents int64                   `json:"line_total_cents"`
}

// CartView is the full cart state returned to clients.
type CartView struct {
	Items        []ItemView      `json:"items"`
	Totals       pricing.Totals  `json:"totals"`
	Coupon       *pricing.Coupon `json:"coupon,omitempty"`
	PayableCents int64           `json:"payable_cents"`
}

// OrderConfirmation is returned when a session checks out.
type OrderConfirmation struct {
	OrderID     string    `json:"order_id"`
	TotalCents  int64     `json:"total_cents"`
	ItemCount   int       `json:"item_count"`
	CompletedAt time.Time `json:"completed_at"`
}

type service struct {
	store    SessionStore
	products productLoader
	coupons  couponLoader
	notify   notifier
	metrics  *metrics.StorefrontMetrics
	now      func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(store SessionStore, products productLoader, coupons couponLoader, notify notifier, m *metrics.StorefrontMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon loader required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		store:    store,
		products: products,
		coupons:  coupons,
		notify:   notify,
		metrics:  m,
		now:      time.Now,
	}, nil
}

// GetCart loads the session cart and prices it.
func (s *service) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.buildView(ctx, sessionID, cart)
}

// AddToCart puts one unit of the product into the session cart.
func (s *service) AddToCart(ctx context.Context, sessionID string, productID uuid.UUID) (*CartView, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	snapshot, err := s.products.GetSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if pricing.RemainingStock(cart, *snapshot) <= 0 {
		s.notify.Push(ctx, sessionID, fmt.Sprintf("%s is out of stock", snapshot.Name), enums.NotificationError)
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock").
			WithDetails(map[string]any{"product_id": snapshot.ID})
	}
	if pricing.WouldExceedStock(cart, *snapshot) {
		s.notify.Push(ctx, sessionID, fmt.Sprintf("No more %s in stock", snapshot.Name), enums.NotificationError)
		return nil, pkgerrors.New(pkgerrors.CodeStockLimit, "requested quantity exceeds available stock").
			WithDetails(map[string]any{"product_id": snapshot.ID, "stock": snapshot.Stock})
	}

	cart = pricing.AddItem(cart, *snapshot)
	if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	s.notify.Push(ctx, sessionID, fmt.Sprintf("Added %s to cart", snapshot.Name), enums.NotificationSuccess)
	return s.buildView(ctx, sessionID, cart)
}

// UpdateQuantity sets the quantity of an existing cart line. Zero or negative
// quantities remove the line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*CartView, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, sessionID, productID)
	}

	snapshot, err := s.products.GetSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > snapshot.Stock {
		s.notify.Push(ctx, sessionID, fmt.Sprintf("No more %s in stock", snapshot.Name), enums.NotificationError)
		return nil, pkgerrors.New(pkgerrors.CodeStockLimit, "requested quantity exceeds available stock").
			WithDetails(map[string]any{"product_id": snapshot.ID, "stock": snapshot.Stock})
	}

	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	cart = pricing.UpdateQuantity(cart, productID, quantity)
	if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return s.buildView(ctx, sessionID, cart)
}

// RemoveFromCart drops the product's line from the session cart.
func (s *service) RemoveFromCart(ctx context.Context, sessionID string, productID uuid.UUID) (*CartView, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	cart = pricing.RemoveItem(cart, productID)
	if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return s.buildView(ctx, sessionID, cart)
}

// ApplyCoupon validates the coupon against the current cart total and records
// the selection. Once selected the coupon stays applied as the cart changes.
func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (*CartView, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	totals := pricing.ComputeTotals(cart)
	if !pricing.CouponApplicable(totals.AfterDiscountCents, *coupon) {
		s.metrics.IncCouponsRejected()
		s.notify.Push(ctx, sessionID, fmt.Sprintf("Coupon %s needs a higher cart total", coupon.Code), enums.NotificationWarning)
		return nil, pkgerrors.New(pkgerrors.CodeCouponNotApplicable, "cart total is below the coupon minimum").
			WithDetails(map[string]any{"code": coupon.Code, "minimum_cents": percentageCouponMinimumCents})
	}

	if err := s.store.SaveCouponCode(ctx, sessionID, coupon.Code); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save coupon")
	}
	s.notify.Push(ctx, sessionID, fmt.Sprintf("Coupon %s applied", coupon.Code), enums.NotificationSuccess)
	return s.buildView(ctx, sessionID, cart)
}

// RemoveCoupon drops the session's coupon selection.
func (s *service) RemoveCoupon(ctx context.Context, sessionID string) (*CartView, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if err := s.store.ClearCouponCode(ctx, sessionID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear coupon")
	}
	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.buildView(ctx, sessionID, cart)
}

// CompleteOrder checks out the session cart and clears the session state.
func (s *service) CompleteOrder(ctx context.Context, sessionID string) (*OrderConfirmation, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(cart) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	view, err := s.buildView(ctx, sessionID, cart)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveCart(ctx, sessionID, pricing.Cart{}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	if err := s.store.ClearCouponCode(ctx, sessionID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear coupon")
	}

	completedAt := s.now()
	confirmation := &OrderConfirmation{
		OrderID:     fmt.Sprintf("ORD-%d", completedAt.UnixNano()),
		TotalCents:  view.PayableCents,
		ItemCount:   len(cart),
		CompletedAt: completedAt,
	}

	s.metrics.IncOrdersCompleted()
	s.notify.Push(ctx, sessionID, fmt.Sprintf("Order %s placed", confirmation.OrderID), enums.NotificationSuccess)
	return confirmation, nil
}

// buildView prices the cart and resolves the session coupon. A coupon whose
// code no longer exists is silently dropped from the session.
func (s *service) buildView(ctx context.Context, sessionID string, cart pricing.Cart) (*CartView, error) {
	view := &CartView{
		Items:  make([]ItemView, 0, len(cart)),
		Totals: pricing.ComputeTotals(cart),
	}
	for _, item := range cart {
		view.Items = append(view.Items, ItemView{
			Product:        item.Product,
			Quantity:       item.Quantity,
			DiscountRate:   pricing.EffectiveDiscountRate(item, cart),
			LineTotalCents: pricing.ItemTotalCents(item, cart),
		})
	}
	view.PayableCents = view.Totals.AfterDiscountCents

	code, err := s.store.LoadCouponCode(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if code == "" {
		return view, nil
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			if clearErr := s.store.ClearCouponCode(ctx, sessionID); clearErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, clearErr, "clear coupon")
			}
			return view, nil
		}
		return nil, err
	}

	view.Coupon = coupon
	view.PayableCents = pricing.ApplyCoupon(view.Totals.AfterDiscountCents, *coupon)
	return view, nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
