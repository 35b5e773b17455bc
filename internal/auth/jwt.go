package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "doefood"

// SessionClaims struct to be encoded to JWT
type SessionClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionTokens emite e valida os tokens de sessão do provedor de identidade local.
type SessionTokens struct {
	secret   []byte
	lifespan time.Duration
	now      func() time.Time
}

func NewSessionTokens(secret string, lifespan time.Duration) *SessionTokens {
	if lifespan <= 0 {
		lifespan = 24 * time.Hour
	}
	return &SessionTokens{secret: []byte(secret), lifespan: lifespan, now: time.Now}
}

// GenerateToken generates a new session JWT for the given account.
func (s *SessionTokens) GenerateToken(uid, email string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrSecretNotConfigured
	}

	now := s.now()
	claims := &SessionClaims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifespan)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates a session JWT string.
// Returns the claims if the token is valid, otherwise ErrExpiredToken or ErrInvalidToken.
func (s *SessionTokens) ValidateToken(tokenString string) (*SessionClaims, error) {
	if len(s.secret) == 0 {
		return nil, ErrSecretNotConfigured
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
