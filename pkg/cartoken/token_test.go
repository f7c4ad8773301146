package cartoken

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/karangtaruna-pekunden/marketplace/pkg/config"
)

func testConfig() config.CartTokenConfig {
	return config.CartTokenConfig{Secret: "secret", Issuer: "pekunden-marketplace", TTLHours: 24}
}

func TestMintAndParse(t *testing.T) {
	cfg := testConfig()
	now := time.Now().UTC()
	cartID := uuid.New()

	token, err := Mint(cfg, now, cartID)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := Parse(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.CartID != cartID {
		t.Fatalf("expected cart %s, got %s", cartID, claims.CartID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
	diff := claims.ExpiresAt.Sub(now.Add(24 * time.Hour))
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("unexpected expiry %v", claims.ExpiresAt)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	token, err := Mint(cfg, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	cfg.Secret = "other"
	if _, err := Parse(cfg, token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	cfg := testConfig()
	token, err := Mint(cfg, time.Now().Add(-48*time.Hour), uuid.New())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := Parse(cfg, token); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestMintValidatesInput(t *testing.T) {
	cfg := testConfig()
	if _, err := Mint(cfg, time.Now(), uuid.Nil); err == nil {
		t.Fatalf("expected error for nil cart id")
	}
	cfg.TTLHours = 0
	if _, err := Mint(cfg, time.Now(), uuid.New()); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
	if _, err := Parse(testConfig(), "  "); err == nil {
		t.Fatalf("expected error for empty token")
	}
}
