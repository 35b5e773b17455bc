package passwordreset

import "errors"

// Taxonomia de erros do fluxo de redefinição. Os erros retornados pelo Service
// fazem wrap de uma destas sentinelas e, quando houver, da causa original.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("user not found")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("expired token")
	ErrProvider      = errors.New("identity provider error")
	ErrDelivery      = errors.New("email delivery error")
	ErrConfiguration = errors.New("configuration error")
)

// Refinamentos de ErrInvalidToken: o handler HTTP responde de forma diferente a cada um.
var (
	ErrInvalidSubject = kindOf(ErrInvalidToken, "missing or malformed token subject")
	ErrTokenMismatch  = kindOf(ErrInvalidToken, "token does not match the stored token")
)

type refinedError struct {
	parent error
	msg    string
}

func kindOf(parent error, msg string) error {
	return &refinedError{parent: parent, msg: msg}
}

func (e *refinedError) Error() string { return e.parent.Error() + ": " + e.msg }

func (e *refinedError) Unwrap() error { return e.parent }
