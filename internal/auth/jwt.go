package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const operatorSubject = "operator"

// SessionClaims identify one login of the single operator.
type SessionClaims struct {
	RememberMe bool `json:"remember_me"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session valid for ttl from now.
func GenerateToken(secret string, ttl time.Duration, rememberMe bool, now time.Time) (string, *SessionClaims, error) {
	claims := &SessionClaims{
		RememberMe: rememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   operatorSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}
