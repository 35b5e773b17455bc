// Package passwordreset coordena o ciclo de vida do token de redefinição de senha:
// solicitação (emissão, armazenamento e envio do link) e confirmação
// (verificação, comparação com o token armazenado, troca de senha e invalidação).
package passwordreset

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"doefood/backend/internal/auth"
	"doefood/backend/internal/docstore"
	"doefood/backend/internal/identity"
	"doefood/backend/internal/models"
	"doefood/backend/internal/users"
	"doefood/backend/pkg/metrics"

	"go.uber.org/zap"
)

// ResetPath é o caminho do frontend que recebe o token.
const ResetPath = "/autenticacao/redefinir-senha/"

type UserDirectory interface {
	ByID(ctx context.Context, id string) (docstore.Record[models.User], error)
	SetResetToken(ctx context.Context, id, token string) error
	ClearResetToken(ctx context.Context, id string) error
}

type TokenCodec interface {
	Issue(subject string) (string, error)
	Verify(token string) (*auth.ResetClaims, error)
}

type AccountProvider interface {
	FindAccountByEmail(ctx context.Context, email string) (string, error)
	SetCredential(ctx context.Context, accountID, newPassword string) error
}

type LinkSender interface {
	SendResetLink(ctx context.Context, email, link string) error
}

type Service struct {
	logger      *zap.Logger
	directory   UserDirectory
	codec       TokenCodec
	accounts    AccountProvider
	sender      LinkSender
	frontendURL string
}

func New(logger *zap.Logger, directory UserDirectory, codec TokenCodec, accounts AccountProvider, sender LinkSender, frontendURL string) *Service {
	return &Service{
		logger:      logger.Named("password_reset"),
		directory:   directory,
		codec:       codec,
		accounts:    accounts,
		sender:      sender,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

// RequestReset emite um novo token para a conta do e-mail, grava no usuário
// (substituindo qualquer token anterior) e envia o link de redefinição.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		metrics.ObservePasswordReset("request", "validation_error")
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	uid, err := s.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrAccountNotFound) {
			metrics.ObservePasswordReset("request", "not_found")
			return ErrNotFound
		}
		metrics.ObservePasswordReset("request", "provider_error")
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}

	if _, err := s.directory.ByID(ctx, uid); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.logger.Warn("account has no user document", zap.String("uid", uid))
			metrics.ObservePasswordReset("request", "not_found")
			return ErrNotFound
		}
		metrics.ObservePasswordReset("request", "store_error")
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}

	token, err := s.codec.Issue(uid)
	if err != nil {
		s.logger.Error("failed to issue reset token", zap.Error(err))
		metrics.ObservePasswordReset("request", "configuration_error")
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if err := s.directory.SetResetToken(ctx, uid, token); err != nil {
		metrics.ObservePasswordReset("request", "store_error")
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}
	metrics.ObservePasswordReset("request", "issued")

	if err := s.sender.SendResetLink(ctx, email, s.ResetLink(token)); err != nil {
		s.logger.Error("failed to send reset email", zap.String("uid", uid), zap.Error(err))
		metrics.ObservePasswordReset("request", "delivery_error")
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	s.logger.Info("password reset requested", zap.String("uid", uid))
	metrics.ObservePasswordReset("request", "sent")
	return nil
}

// ResetLink monta o link enviado por e-mail.
func (s *Service) ResetLink(token string) string {
	return s.frontendURL + ResetPath + token
}

// ConfirmReset troca a senha se o token for válido e for o token armazenado no usuário.
// Falha do provedor deixa o token armazenado, permitindo nova tentativa com o mesmo link.
func (s *Service) ConfirmReset(ctx context.Context, token, newPassword string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			metrics.ObservePasswordReset("confirm", "expired")
			return fmt.Errorf("%w: %w", ErrExpiredToken, err)
		case errors.Is(err, auth.ErrSecretNotConfigured):
			s.logger.Error("reset token secret not configured")
			metrics.ObservePasswordReset("confirm", "configuration_error")
			return fmt.Errorf("%w: %w", ErrConfiguration, err)
		default:
			metrics.ObservePasswordReset("confirm", "invalid")
			return fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	}

	uid := strings.TrimSpace(claims.UID)
	if uid == "" {
		metrics.ObservePasswordReset("confirm", "invalid_subject")
		return ErrInvalidSubject
	}

	rec, err := s.directory.ByID(ctx, uid)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			metrics.ObservePasswordReset("confirm", "invalidated")
			return ErrTokenMismatch
		}
		metrics.ObservePasswordReset("confirm", "store_error")
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}

	stored := rec.Data.TokenRedefinicao
	if stored == nil || subtle.ConstantTimeCompare([]byte(*stored), []byte(token)) != 1 {
		s.logger.Info("reset token superseded or already used", zap.String("uid", uid))
		metrics.ObservePasswordReset("confirm", "invalidated")
		return ErrTokenMismatch
	}

	// Só depois de validar o token: um link inválido responde como tal mesmo sem senha.
	if newPassword == "" {
		metrics.ObservePasswordReset("confirm", "validation_error")
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}

	if err := s.accounts.SetCredential(ctx, uid, newPassword); err != nil {
		// Senha recusada pela regra do provedor continua sendo ErrProvider, mas também é ErrValidation.
		switch identity.CodeOf(err) {
		case identity.CodeWeakPassword, identity.CodeInvalidPassword:
			metrics.ObservePasswordReset("confirm", "validation_error")
			return fmt.Errorf("%w: %w: %w", ErrProvider, ErrValidation, err)
		}
		s.logger.Error("identity provider rejected password update", zap.String("uid", uid), zap.Error(err))
		metrics.ObservePasswordReset("confirm", "provider_error")
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}

	// A senha já foi trocada: falha ao limpar o token não desfaz a operação.
	// O token continua armazenado e reutilizável até expirar.
	if err := s.directory.ClearResetToken(ctx, uid); err != nil {
		s.logger.Error("password updated but reset token was not cleared",
			zap.String("uid", uid), zap.Error(err))
		metrics.ObservePasswordReset("confirm", "clear_failed")
	}

	s.logger.Info("password reset confirmed", zap.String("uid", uid))
	metrics.ObservePasswordReset("confirm", "confirmed")
	return nil
}
