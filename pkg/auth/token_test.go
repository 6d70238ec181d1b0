package auth

import (
	"testing"
	"time"

	"github.com/storefrontlabs/storefront-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAdminToken(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	now := time.Now()

	token, err := MintAdminToken(cfg, now, "admin@example.com")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAdminToken(cfg, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Email != "admin@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()

	token, err := MintAdminToken(cfg, time.Now(), "admin@example.com")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAdminToken(other, token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()

	token, err := MintAdminToken(cfg, time.Now().Add(-time.Hour), "admin@example.com")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := ParseAdminToken(cfg, token); err == nil {
		t.Fatal("expected parse to fail for expired token")
	}
}

func TestMintValidation(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()

	if _, err := MintAdminToken(config.JWTConfig{}, time.Now(), "a@b.c"); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := MintAdminToken(cfg, time.Now(), ""); err == nil {
		t.Fatal("expected error for missing email")
	}
}
