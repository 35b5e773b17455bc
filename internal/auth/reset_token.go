package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultResetTokenTTL é a validade padrão do token de redefinição de senha.
const DefaultResetTokenTTL = time.Hour

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token expired")
	ErrSecretNotConfigured = errors.New("JWT secret not configured")
)

// ResetClaims é o payload do token de redefinição de senha.
type ResetClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// ResetTokenCodec emite e verifica tokens de redefinição de senha (HS256).
// O segredo só é exigido no primeiro Issue/Verify.
type ResetTokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type CodecOption func(*ResetTokenCodec)

// WithClock substitui o relógio usado para iat/exp e para a verificação.
func WithClock(now func() time.Time) CodecOption {
	return func(c *ResetTokenCodec) { c.now = now }
}

func NewResetTokenCodec(secret string, ttl time.Duration, opts ...CodecOption) *ResetTokenCodec {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	c := &ResetTokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue gera um token assinado para o subject (ID da conta).
func (c *ResetTokenCodec) Issue(subject string) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrSecretNotConfigured
	}
	now := c.now()
	claims := ResetClaims{
		UID: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("error signing reset token: %w", err)
	}
	return signed, nil
}

// Verify decodifica o token e confere assinatura e validade.
// Retorna ErrExpiredToken se passou do exp e ErrInvalidToken para qualquer outro problema.
func (c *ResetTokenCodec) Verify(tokenString string) (*ResetClaims, error) {
	if len(c.secret) == 0 {
		return nil, ErrSecretNotConfigured
	}
	claims := &ResetClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
