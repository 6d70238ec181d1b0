package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-backend/internal/cart"
	"github.com/storefrontlabs/storefront-backend/internal/coupons"
	"github.com/storefrontlabs/storefront-backend/internal/notifications"
	"github.com/storefrontlabs/storefront-backend/internal/pricing"
	"github.com/storefrontlabs/storefront-backend/internal/products"
	pkgauth "github.com/storefrontlabs/storefront-backend/pkg/auth"
	"github.com/storefrontlabs/storefront-backend/pkg/config"
	"github.com/storefrontlabs/storefront-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) CreateProduct(context.Context, products.CreateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: uuid.New()}, nil
}

func (stubProductService) UpdateProduct(context.Context, uuid.UUID, products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) DeleteProduct(context.Context, uuid.UUID) error {
	return nil
}

func (stubProductService) GetProduct(context.Context, uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) ListProducts(context.Context, products.ListProductsInput) (*products.ProductListPage, error) {
	return &products.ProductListPage{Products: []products.ProductDTO{}}, nil
}

func (stubProductService) GetSnapshot(context.Context, uuid.UUID) (*pricing.ProductSnapshot, error) {
	return &pricing.ProductSnapshot{}, nil
}

type stubCouponService struct{}

func (stubCouponService) CreateCoupon(context.Context, coupons.CreateCouponInput) (*coupons.CouponDTO, error) {
	return &coupons.CouponDTO{}, nil
}

func (stubCouponService) DeleteCoupon(context.Context, uuid.UUID) error {
	return nil
}

func (stubCouponService) ListCoupons(context.Context) ([]coupons.CouponDTO, error) {
	return []coupons.CouponDTO{}, nil
}

func (stubCouponService) GetByCode(context.Context, string) (*pricing.Coupon, error) {
	return &pricing.Coupon{}, nil
}

type stubCartService struct{}

func (stubCartService) GetCart(context.Context, string) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) AddToCart(context.Context, string, uuid.UUID) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) UpdateQuantity(context.Context, string, uuid.UUID, int) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) RemoveFromCart(context.Context, string, uuid.UUID) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) ApplyCoupon(context.Context, string, string) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) RemoveCoupon(context.Context, string) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) CompleteOrder(context.Context, string) (*cart.OrderConfirmation, error) {
	return &cart.OrderConfirmation{OrderID: "ORD-1"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "storefront",
			ExpirationMinutes: 60,
		},
		Admin: config.AdminConfig{Email: "admin@example.com"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		nil,
		stubProductService{},
		stubCouponService{},
		stubCartService{},
		notifications.NewService(time.Second, nil),
	)
}

func TestRouterPublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method  string
		path    string
		headers map[string]string
		status  int
	}{
		{http.MethodGet, "/health/live", nil, http.StatusOK},
		{http.MethodGet, "/health/ready", nil, http.StatusOK},
		{http.MethodGet, "/metrics", nil, http.StatusOK},
		{http.MethodGet, "/api/v1/products", nil, http.StatusOK},
		{http.MethodGet, "/api/v1/cart", nil, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/cart", map[string]string{"X-Session-Id": "sess-1"}, http.StatusOK},
		{http.MethodGet, "/api/v1/notifications", map[string]string{"X-Session-Id": "sess-1"}, http.StatusOK},
		{http.MethodGet, "/api/admin/v1/products", nil, http.StatusUnauthorized},
		{http.MethodDelete, "/api/admin/v1/coupons/" + uuid.NewString(), nil, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		for k, v := range tc.headers {
			req.Header.Set(k, v)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d body=%s", tc.method, tc.path, tc.status, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterAdminTokenAccess(t *testing.T) {
	router := newTestRouter(t)
	cfg := testConfig()

	token, err := pkgauth.MintAdminToken(cfg.JWT, time.Now(), cfg.Admin.Email)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", strings.NewReader(`{"name":"Tee","price_cents":10000,"stock":5}`))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestRouterCheckout(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", nil)
	req.Header.Set("X-Session-Id", "sess-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", resp.Code, resp.Body.String())
	}
}
