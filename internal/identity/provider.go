// Package identity encapsula o provedor de identidade externo (Firebase Auth) e
// um provedor local equivalente baseado em Postgres.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountExists       = errors.New("account already exists")
	ErrSignInNotSupported  = errors.New("sign-in not supported by this provider")
	ErrInvalidPasswordRule = errors.New("password does not meet requirements")
)

// Provider é o contrato do provedor de identidade consumido pelo fluxo de
// redefinição de senha e pelo middleware de sessão.
type Provider interface {
	// FindAccountByEmail retorna o ID da conta ou ErrAccountNotFound.
	FindAccountByEmail(ctx context.Context, email string) (string, error)
	// SetCredential troca a senha da conta. Só retorna nil se o provedor persistiu a alteração.
	SetCredential(ctx context.Context, accountID, newPassword string) error
	VerifySessionToken(ctx context.Context, token string) (*Session, error)
}

// Session é a identidade autenticada extraída de um token de sessão.
type Session struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// AuthError carrega o código de erro do provedor (no formato "auth/<codigo>").
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ShortCode retorna o código sem o prefixo "auth/".
func (e *AuthError) ShortCode() string {
	return strings.TrimPrefix(e.Code, "auth/")
}

// CodeOf extrai o código do provedor de um erro, ou "auth/unknown".
func CodeOf(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Code != "" {
		return authErr.Code
	}
	return CodeUnknown
}

const minPasswordLength = 6

// ValidatePassword aplica a regra mínima de senha do provedor.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &AuthError{Code: CodeWeakPassword, Err: ErrInvalidPasswordRule}
	}
	return nil
}
