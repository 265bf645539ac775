package auth

import (
	"chat-live/domain"
	"chat-live/errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "chat-live"

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates the bearer tokens presented by live connections.
// Tokens are normally minted by the CRUD login flow sharing the same secret.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), duration: duration}
}

// GenerateToken creates a signed JWT for a specific identity.
func (t *TokenIssuer) GenerateToken(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID: string(identity.ID),
		Name:   identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	// HS256 (HMAC with SHA256).
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken parses and validates the signature and expiration of a JWT string
// and returns the identity it was issued for.
func (t *TokenIssuer) ValidateToken(tokenString string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return domain.Identity{}, errors.ErrInvalidToken
	}
	return domain.Identity{ID: domain.UserID(claims.UserID), Name: claims.Name}, nil
}
