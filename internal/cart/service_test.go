package cart

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-backend/internal/pricing"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	carts   map[string]pricing.Cart
	coupons map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{carts: map[string]pricing.Cart{}, coupons: map[string]string{}}
}

func (s *stubStore) LoadCart(_ context.Context, sessionID string) (pricing.Cart, error) {
	return s.carts[sessionID], nil
}

func (s *stubStore) SaveCart(_ context.Context, sessionID string, cart pricing.Cart) error {
	if len(cart) == 0 {
		delete(s.carts, sessionID)
		return nil
	}
	s.carts[sessionID] = cart
	return nil
}

func (s *stubStore) LoadCouponCode(_ context.Context, sessionID string) (string, error) {
	return s.coupons[sessionID], nil
}

func (s *stubStore) SaveCouponCode(_ context.Context, sessionID, code string) error {
	s.coupons[sessionID] = code
	return nil
}

func (s *stubStore) ClearCouponCode(_ context.Context, sessionID string) error {
	delete(s.coupons, sessionID)
	return nil
}

type stubProducts struct {
	snapshots map[uuid.UUID]pricing.ProductSnapshot
}

func (s *stubProducts) GetSnapshot(_ context.Context, productID uuid.UUID) (*pricing.ProductSnapshot, error) {
	snap, ok := s.snapshots[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &snap, nil
}

type stubCoupons struct {
	byCode map[string]pricing.Coupon
}

func (s *stubCoupons) GetByCode(_ context.Context, code string) (*pricing.Coupon, error) {
	coupon, ok := s.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return &coupon, nil
}

type stubNotifier struct {
	messages   []string
	severities []enums.NotificationSeverity
}

func (s *stubNotifier) Push(_ context.Context, _ string, message string, severity enums.NotificationSeverity) {
	s.messages = append(s.messages, message)
	s.severities = append(s.severities, severity)
}

type fixture struct {
	svc      Service
	store    *stubStore
	products *stubProducts
	coupons  *stubCoupons
	notify   *stubNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    newStubStore(),
		products: &stubProducts{snapshots: map[uuid.UUID]pricing.ProductSnapshot{}},
		coupons:  &stubCoupons{byCode: map[string]pricing.Coupon{}},
		notify:   &stubNotifier{},
	}
	svc, err := NewService(f.store, f.products, f.coupons, f.notify, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) addProduct(priceCents int64, stock int, tiers ...pricing.DiscountTier) pricing.ProductSnapshot {
	snap := pricing.ProductSnapshot{
		ID:         uuid.New(),
		Name:       "Basic Tee",
		PriceCents: priceCents,
		Stock:      stock,
		Tiers:      tiers,
	}
	f.products.snapshots[snap.ID] = snap
	return snap
}

func TestAddToCart(t *testing.T) {
	f := newFixture(t)
	snap := f.addProduct(10000, 5)
	ctx := context.Background()

	view, err := f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.Equal(t, int64(10000), view.Totals.BeforeDiscountCents)
	assert.Equal(t, int64(10000), view.PayableCents)
	require.NotEmpty(t, f.notify.messages)
	assert.Equal(t, enums.NotificationSuccess, f.notify.severities[0])

	view, err = f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestAddToCartOutOfStock(t *testing.T) {
	f := newFixture(t)
	snap := f.addProduct(10000, 0)

	_, err := f.svc.AddToCart(context.Background(), "sess-1", snap.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeOutOfStock, appErr.Code())
	require.NotEmpty(t, f.notify.severities)
	assert.Equal(t, enums.NotificationError, f.notify.severities[0])
	assert.Empty(t, f.store.carts["sess-1"])
}

func TestAddToCartOutOfStockWhenCartHoldsAllStock(t *testing.T) {
	f := newFixture(t)
	snap := f.addProduct(10000, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.AddToCart(ctx, "sess-1", snap.ID)
		require.NoError(t, err)
	}

	// stock 3, cart holds 3: nothing remains, so this is out of stock
	// rather than a quantity-limit rejection
	_, err := f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeOutOfStock, appErr.Code())
	require.NotEmpty(t, f.notify.severities)
	assert.Equal(t, enums.NotificationError, f.notify.severities[len(f.notify.severities)-1])

	// the cart keeps the original quantity
	require.Len(t, f.store.carts["sess-1"], 1)
	assert.Equal(t, 3, f.store.carts["sess-1"][0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	snap := f.addProduct(10000, 5)
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.NoError(t, err)

	view, err := f.svc.UpdateQuantity(ctx, "sess-1", snap.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)

	_, err = f.svc.UpdateQuantity(ctx, "sess-1", snap.ID, 6)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStockLimit, appErr.Code())

	view, err = f.svc.UpdateQuantity(ctx, "sess-1", snap.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.NotContains(t, f.store.carts, "sess-1")
}

func TestApplyCouponBelowMinimum(t *testing.T) {
	f := newFixture(t)
	snap := f.addProduct(5000, 5)
	f.coupons.byCode["PERCENT10"] = pricing.Coupon{
		Code:          "PERCENT10",
		DiscountType:  enums.CouponDiscountPercentage,
		DiscountValue: 10,
	}
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.NoError(t, err)

	_, err = f.svc.ApplyCoupon(ctx, "sess-1", "PERCENT10")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeCouponNotApplicable, appErr.Code())
	assert.NotContains(t, f.store.coupons, "sess-1")
}

func TestApplyCouponAndPayable(t *testing.T) {
	f := newFixture(t)
	snap := f.addProduct(10000, 5)
	f.coupons.byCode["PERCENT10"] = pricing.Coupon{
		Code:          "PERCENT10",
		DiscountType:  enums.CouponDiscountPercentage,
		DiscountValue: 10,
	}
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.NoError(t, err)

	view, err := f.svc.ApplyCoupon(ctx, "sess-1", "PERCENT10")
	require.NoError(t, err)
	require.NotNil(t, view.Coupon)
	assert.Equal(t, "PERCENT10", view.Coupon.Code)
	assert.Equal(t, int64(9000), view.PayableCents)
}

func TestDeletedCouponDropsFromSession(t *testing.T) {
	f := newFixture(t)
	snap := f.addProduct(10000, 5)
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.NoError(t, err)
	f.store.coupons["sess-1"] = "GONE"

	view, err := f.svc.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, view.Coupon)
	assert.Equal(t, int64(10000), view.PayableCents)
	assert.NotContains(t, f.store.coupons, "sess-1")
}

func TestAmountCouponStaysAppliedAsCartShrinks(t *testing.T) {
	f := newFixture(t)
	snap := f.addProduct(10000, 5)
	f.coupons.byCode["AMOUNT5000"] = pricing.Coupon{
		Code:          "AMOUNT5000",
		DiscountType:  enums.CouponDiscountAmount,
		DiscountValue: 5000,
	}
	ctx := context.Background()

	_, err := f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.NoError(t, err)
	_, err = f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.NoError(t, err)

	_, err = f.svc.ApplyCoupon(ctx, "sess-1", "AMOUNT5000")
	require.NoError(t, err)

	view, err := f.svc.UpdateQuantity(ctx, "sess-1", snap.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, view.Coupon)
	assert.Equal(t, int64(5000), view.PayableCents)
}

func TestCompleteOrder(t *testing.T) {
	f := newFixture(t)
	snap := f.addProduct(10000, 5)
	ctx := context.Background()

	_, err := f.svc.CompleteOrder(ctx, "sess-1")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = f.svc.AddToCart(ctx, "sess-1", snap.ID)
	require.NoError(t, err)
	f.store.coupons["sess-1"] = "GONE"

	confirmation, err := f.svc.CompleteOrder(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(confirmation.OrderID, "ORD-"))
	assert.Equal(t, int64(10000), confirmation.TotalCents)
	assert.Equal(t, 1, confirmation.ItemCount)
	assert.WithinDuration(t, time.Now(), confirmation.CompletedAt, 5*time.Second)

	assert.NotContains(t, f.store.carts, "sess-1")
	assert.NotContains(t, f.store.coupons, "sess-1")
}

func TestSessionIDRequired(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetCart(context.Background(), "  ")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
