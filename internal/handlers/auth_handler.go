package handlers

import (
	"context"
	"errors"
	"net/http"

	"doefood/backend/internal/identity"
	"doefood/backend/internal/passwordreset"
	"doefood/backend/pkg/features"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Mensagens das rotas de autenticação.
const (
	msgResetEmailSent   = "E-mail de redefinição enviado com sucesso"
	msgEmailRequired    = "E-mail é obrigatório"
	msgUserNotFound     = "Usuário não encontrado"
	msgPasswordReset    = "Senha redefinida com sucesso"
	msgPasswordRequired = "Nova senha é obrigatória"
	msgInvalidSubject   = "UID inválido para redefinição de senha."
	msgTokenMismatch    = "Token inválido ou expirado"
	msgTokenExpired     = "Token expirado"
	msgTokenInvalid     = "Token inválido"
)

type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, token, newPassword string) error
}

// SignInProvider é implementado pelo provedor local; com Firebase o login acontece no cliente.
type SignInProvider interface {
	SignIn(ctx context.Context, email, password string) (string, *identity.Session, error)
}

type AuthHandler struct {
	resets ResetService
	signIn SignInProvider
	logger *zap.Logger
}

func NewAuthHandler(resets ResetService, signIn SignInProvider, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{resets: resets, signIn: signIn, logger: logger.Named("auth_handler")}
}

type RecuperarSenhaPayload struct {
	Email string `json:"email"`
}

// RecuperarSenha trata POST /autenticacao/recuperar-senha.
func (h *AuthHandler) RecuperarSenha(c *gin.Context) {
	var payload RecuperarSenhaPayload
	// Corpo inválido é tratado como e-mail ausente.
	_ = c.ShouldBindJSON(&payload)

	err := h.resets.RequestReset(c.Request.Context(), payload.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"mensagem": msgResetEmailSent})
	case errors.Is(err, passwordreset.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"mensagem": msgEmailRequired})
	case errors.Is(err, passwordreset.ErrNotFound):
		if features.IsEnabled(features.MaskUnknownEmail) {
			c.JSON(http.StatusOK, gin.H{"mensagem": msgResetEmailSent})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"mensagem": msgUserNotFound})
	default:
		h.logger.Error("Erro na solicitação de redefinição", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"mensagem": msgInternalError})
	}
}

type RedefinirSenhaPayload struct {
	NovaSenha string `json:"novaSenha"`
}

// RedefinirSenha trata POST /autenticacao/redefinir-senha/:token.
func (h *AuthHandler) RedefinirSenha(c *gin.Context) {
	var payload RedefinirSenhaPayload
	_ = c.ShouldBindJSON(&payload)

	err := h.resets.ConfirmReset(c.Request.Context(), c.Param("token"), payload.NovaSenha)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"mensagem": msgPasswordReset})
	case errors.Is(err, passwordreset.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"mensagem": validationMessage(err, payload.NovaSenha)})
	case errors.Is(err, passwordreset.ErrInvalidSubject):
		c.JSON(http.StatusBadRequest, gin.H{"erro": msgInvalidSubject})
	case errors.Is(err, passwordreset.ErrTokenMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"mensagem": msgTokenMismatch})
	case errors.Is(err, passwordreset.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"mensagem": msgTokenExpired})
	case errors.Is(err, passwordreset.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"mensagem": msgTokenInvalid})
	default:
		h.logger.Error("Erro na redefinição de senha", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"mensagem": msgInternalError})
	}
}

func validationMessage(err error, password string) string {
	if password == "" {
		return msgPasswordRequired
	}
	return identity.MessageFor(identity.CodeOf(err))
}

type LoginPayload struct {
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required"`
}

// Login trata POST /autenticacao/login (somente com o provedor de identidade local).
func (h *AuthHandler) Login(c *gin.Context) {
	if h.signIn == nil {
		c.JSON(http.StatusNotFound, gin.H{"mensagem": "Login não disponível para este provedor de identidade"})
		return
	}
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensagem": "E-mail e senha são obrigatórios"})
		return
	}

	token, session, err := h.signIn.SignIn(c.Request.Context(), payload.Email, payload.Senha)
	if err != nil {
		code := identity.CodeOf(err)
		if code == identity.CodeInternalError || code == identity.CodeUnknown {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    (&identity.AuthError{Code: code}).ShortCode(),
			"message": identity.MessageFor(code),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "uid": session.UID})
}
