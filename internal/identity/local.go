package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"doefood/backend/internal/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type localAccount struct {
	ID           string
	Email        string
	PasswordHash string
	Disabled     bool
}

// LocalProvider implementa Provider com contas na tabela local_accounts e
// tokens de sessão JWT próprios. Usado em desenvolvimento e instalações sem Firebase.
type LocalProvider struct {
	db       *gorm.DB
	sessions *auth.SessionTokens
	logger   *zap.Logger
}

func NewLocalProvider(db *gorm.DB, sessions *auth.SessionTokens, logger *zap.Logger) *LocalProvider {
	return &LocalProvider{db: db, sessions: sessions, logger: logger.Named("local_auth")}
}

func (p *LocalProvider) findBy(ctx context.Context, column, value string) (*localAccount, error) {
	var acct localAccount
	res := p.db.WithContext(ctx).
		Raw("SELECT id, email, password_hash, disabled FROM local_accounts WHERE "+column+" = ?", value).
		Scan(&acct)
	if res.Error != nil {
		return nil, &AuthError{Code: CodeInternalError, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, ErrAccountNotFound
	}
	return &acct, nil
}

func (p *LocalProvider) FindAccountByEmail(ctx context.Context, email string) (string, error) {
	acct, err := p.findBy(ctx, "email", email)
	if err != nil {
		return "", err
	}
	return acct.ID, nil
}

func (p *LocalProvider) SetCredential(ctx context.Context, accountID, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return &AuthError{Code: CodeInternalError, Err: err}
	}
	res := p.db.WithContext(ctx).
		Exec("UPDATE local_accounts SET password_hash = ?, updated_at = NOW() WHERE id = ?", string(hash), accountID)
	if res.Error != nil {
		return &AuthError{Code: CodeInternalError, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &AuthError{Code: CodeUserNotFound, Err: ErrAccountNotFound}
	}
	return nil
}

// VerifySessionToken valida o JWT de sessão e confere se a conta ainda existe e está ativa.
func (p *LocalProvider) VerifySessionToken(ctx context.Context, token string) (*Session, error) {
	claims, err := p.sessions.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, &AuthError{Code: CodeIDTokenExpired, Err: err}
		}
		return nil, &AuthError{Code: CodeInvalidIDToken, Err: err}
	}
	acct, err := p.findBy(ctx, "id", claims.UID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, &AuthError{Code: CodeUserNotFound, Err: err}
		}
		return nil, err
	}
	if acct.Disabled {
		return nil, &AuthError{Code: CodeUserDisabled}
	}
	return &Session{UID: acct.ID, Email: acct.Email}, nil
}

// SignIn confere email e senha e emite um token de sessão.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (string, *Session, error) {
	acct, err := p.findBy(ctx, "email", email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", nil, &AuthError{Code: CodeInvalidPassword, Err: ErrInvalidCredentials}
		}
		return "", nil, err
	}
	if acct.Disabled {
		return "", nil, &AuthError{Code: CodeUserDisabled}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", nil, &AuthError{Code: CodeInvalidPassword, Err: ErrInvalidCredentials}
	}
	token, err := p.sessions.GenerateToken(acct.ID, acct.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	p.logger.Info("sign-in", zap.String("uid", acct.ID))
	return token, &Session{UID: acct.ID, Email: acct.Email}, nil
}

// CreateAccount cria uma conta local e retorna seu ID.
func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", &AuthError{Code: CodeInvalidEmail}
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", &AuthError{Code: CodeInternalError, Err: err}
	}

	id := uuid.NewString()
	err = p.db.WithContext(ctx).
		Exec("INSERT INTO local_accounts (id, email, password_hash) VALUES (?, ?, ?)", id, email, string(hash)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", &AuthError{Code: CodeEmailAlreadyExists, Err: ErrAccountExists}
		}
		return "", &AuthError{Code: CodeInternalError, Err: err}
	}
	return id, nil
}
