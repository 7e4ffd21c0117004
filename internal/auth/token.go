package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer mints and validates the short-lived session tokens handed to
// the client after a successful sign-in. The upstream auth service has
// already verified the credential by the time a token is issued.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

type sessionClaims struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Method string `json:"method"`
	jwt.RegisteredClaims
}

func (t *TokenIssuer) Issue(id *Identity) (string, error) {
	now := t.now()
	claims := sessionClaims{
		Name:   id.Name,
		Email:  id.Email,
		Phone:  id.Phone,
		Method: string(id.Method),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token back into the identity it was issued for.
func (t *TokenIssuer) Verify(tokenString string) (*Identity, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UID:    claims.Subject,
		Name:   claims.Name,
		Email:  claims.Email,
		Phone:  claims.Phone,
		Method: SignInMethod(claims.Method),
	}, nil
}
