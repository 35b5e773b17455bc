package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"doefood/backend/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKey é a chave do *identity.Session no gin.Context.
const SessionKey = "usuario"

const minSessionTokenLength = 100

var jwtShape = regexp.MustCompile(`^[A-Za-z0-9\-_=]+\.[A-Za-z0-9\-_=]+\.?[A-Za-z0-9\-_.+/=]*$`)

// SessionVerifier valida tokens de sessão do provedor de identidade.
type SessionVerifier interface {
	VerifySessionToken(ctx context.Context, token string) (*identity.Session, error)
}

// RequireSession exige "Authorization: Bearer <token>" com um token de sessão válido.
func RequireSession(verifier SessionVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token não fornecido"})
			return
		}

		if len(tokenString) < minSessionTokenLength || !jwtShape.MatchString(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "invalid-token-format",
				"message": "Formato do token inválido",
			})
			return
		}

		session, err := verifier.VerifySessionToken(c.Request.Context(), tokenString)
		if err != nil {
			code := identity.CodeOf(err)
			logger.Debug("session rejected", zap.String("code", code), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    strings.TrimPrefix(code, "auth/"),
				"message": identity.MessageFor(code),
			})
			return
		}

		logger.Debug("Autenticação bem-sucedida", zap.String("uid", session.UID), zap.String("email", session.Email))
		c.Header("Strict-Transport-Security", hstsValue)
		c.Header("X-Content-Type-Options", "nosniff")
		c.Set(SessionKey, session)
		c.Next()
	}
}

// CurrentSession retorna a sessão autenticada da requisição.
func CurrentSession(c *gin.Context) (*identity.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*identity.Session)
	return session, ok
}
