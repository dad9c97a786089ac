package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by access tokens. IsAdmin is the only role.
type Claims struct {
	BrokerID uint `json:"brokerId"`
	IsAdmin  bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// AccessTTL is the lifetime of an access token.
const AccessTTL = 15 * time.Minute

// GenerateAccessToken signs an RS256 token for the broker with kid, iss, aud, iat, nbf and jti.
func GenerateAccessToken(brokerID uint, isAdmin bool) (string, error) {
	if err := mustInitKeys(); err != nil {
		return "", fmt.Errorf("keys init: %w", err)
	}
	priv := getPriv()
	if priv == nil {
		return "", errors.New("private key not loaded")
	}

	now := time.Now()
	claims := &Claims{
		BrokerID: brokerID,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    getIssuer(),
			Audience:  []string{getAudience()},
			Subject:   fmt.Sprint(brokerID),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			ID:        uuid.NewString(),
		},
	}

	tok := jwt.NewWithClaims(signMethod(), claims)
	tok.Header["kid"] = getKID()
	return tok.SignedString(priv)
}

// ParseAndValidate checks signature, kid, issuer, audience and expiry.
func ParseAndValidate(tokenStr string) (*Claims, error) {
	if err := mustInitKeys(); err != nil {
		return nil, fmt.Errorf("keys init: %w", err)
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(getIssuer()),
		jwt.WithAudience(getAudience()),
		jwt.WithExpirationRequired(),
	)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		k, _ := t.Header["kid"].(string)
		if k == "" {
			return nil, errors.New("missing kid")
		}
		pub, ok := getPub(k)
		if !ok {
			return nil, errors.New("unknown kid")
		}
		return pub, nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	if !slices.Contains(c.Audience, getAudience()) {
		return nil, errors.New("invalid audience")
	}
	return c, nil
}
