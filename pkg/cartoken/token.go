package cartoken

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/karangtaruna-pekunden/marketplace/pkg/config"
)

// Header carries the cart token on every cart request.
const Header = "X-Cart-Token"

var signingMethod = jwt.SigningMethodHS256

// Claims is the typed JWT handed to browsers in place of a raw cart id.
type Claims struct {
	CartID uuid.UUID `json:"cart_id"`
	jwt.RegisteredClaims
}

// Mint issues a signed token binding the cart id for the configured TTL.
func Mint(cfg config.CartTokenConfig, now time.Time, cartID uuid.UUID) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("cart token secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("cart token issuer is required")
	}
	if cfg.TTL() <= 0 {
		return "", fmt.Errorf("cart token ttl must be positive")
	}
	if cartID == uuid.Nil {
		return "", fmt.Errorf("cart id is required")
	}

	claims := Claims{
		CartID: cartID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   cartID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL())),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing cart token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, issuer and expiry and returns the claims.
func Parse(cfg config.CartTokenConfig, tokenString string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("cart token secret is required")
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, fmt.Errorf("cart token is empty")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.CartID == uuid.Nil {
		return nil, fmt.Errorf("cart token missing cart_id")
	}
	return claims, nil
}
