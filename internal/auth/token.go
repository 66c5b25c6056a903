package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linkcut/linkcut/internal/model"
)

// Token errors.
var (
	// ErrInvalidToken indicates the token is malformed, tampered with, or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims carries the user identity and role inside a signed token.
// The role travels with the token so protected queries need no store
// round-trip to authorize a request.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies HMAC-signed bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given signing secret and token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a signed token for the given user.
func (i *TokenIssuer) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the auth context it encodes.
// Returns ErrInvalidToken for any malformed, tampered, or expired token so
// callers cannot distinguish failure modes.
func (i *TokenIssuer) Verify(tokenString string) (*model.AuthContext, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	role := model.Role(claims.Role)
	if claims.Subject == "" || !role.IsValid() {
		return nil, ErrInvalidToken
	}

	return &model.AuthContext{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     role,
	}, nil
}
