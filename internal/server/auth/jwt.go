package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"codexplain/internal/common"
)

// Claims carries the caller's identity inside a signed token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// DefaultTokenValidity is the session lifetime used when no override is configured.
const DefaultTokenValidity = 12 * time.Hour

func GenerateToken(email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetEmailFromToken verifies the signature and expiry of tokenString and
// returns the embedded identity. Every failure mode collapses into
// common.ErrorInvalidToken so callers never have to distinguish parse errors
// from cryptographic ones.
func GetEmailFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrorInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrorInvalidToken
	}

	if !token.Valid || claims.Email == "" {
		return "", common.ErrorInvalidToken
	}

	return claims.Email, nil
}
