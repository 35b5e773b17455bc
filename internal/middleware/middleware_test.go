package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"doefood/backend/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	session *identity.Session
	err     error
}

func (f *fakeVerifier) VerifySessionToken(context.Context, string) (*identity.Session, error) {
	return f.session, f.err
}

// jwtLike monta um token com formato de JWT e comprimento suficiente.
func jwtLike() string {
	return "eyJhbGciOiJSUzI1NiJ9." + strings.Repeat("a", 80) + "." + strings.Repeat("b", 40)
}

func setupSessionRouter(v SessionVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireSession(v, zap.NewNop()))
	r.GET("/protegido", func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": session.UID})
	})
	return r
}

func doGet(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/protegido", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRequireSession(t *testing.T) {
	verifier := &fakeVerifier{session: &identity.Session{UID: "uid-1", Email: "a@x.com"}}
	r := setupSessionRouter(verifier)

	t.Run("missing header", func(t *testing.T) {
		rr := doGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"message":"Token não fornecido"}`, rr.Body.String())
	})

	t.Run("not bearer", func(t *testing.T) {
		rr := doGet(r, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Token não fornecido")
	})

	t.Run("short token", func(t *testing.T) {
		rr := doGet(r, "Bearer abc.def.ghi")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"code":"invalid-token-format","message":"Formato do token inválido"}`, rr.Body.String())
	})

	t.Run("not jwt shaped", func(t *testing.T) {
		rr := doGet(r, "Bearer "+strings.Repeat("x", 120))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid-token-format")
	})

	t.Run("valid", func(t *testing.T) {
		rr := doGet(r, "Bearer "+jwtLike())
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"uid":"uid-1"}`, rr.Body.String())
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Contains(t, rr.Header().Get("Strict-Transport-Security"), "max-age=63072000")
	})
}

func TestRequireSession_ProviderRejection(t *testing.T) {
	verifier := &fakeVerifier{err: &identity.AuthError{Code: identity.CodeIDTokenExpired}}
	rr := doGet(setupSessionRouter(verifier), "Bearer "+jwtLike())

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "id-token-expired", body["code"])
	assert.Equal(t, "Sua sessão expirou. Faça login novamente.", body["message"])
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/status", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rr.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(15*time.Minute, 3)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "limits are per IP")

	now = now.Add(5 * time.Minute)
	assert.True(t, l.Allow("10.0.0.1"), "one token refills every window/max")
	assert.False(t, l.Allow("10.0.0.1"))

	now = now.Add(time.Hour)
	l.Allow("10.0.0.3")
	assert.NotContains(t, l.visitors, "10.0.0.2", "idle visitors are swept")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewIPRateLimiter(time.Minute, 1)))
	r.GET("/status", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestGinRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinZap(zap.NewNop(), time.RFC3339, true), GinRecovery(zap.NewNop()), Metrics())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"erro":"Erro interno do servidor"}`, rr.Body.String())
}
