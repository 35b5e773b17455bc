package router

import (
	"net/http"
	"time"

	"doefood/backend/internal/handlers"
	dfmiddleware "doefood/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies reúne o que o router precisa para montar as rotas.
type Dependencies struct {
	Logger      *zap.Logger
	Environment string
	FrontendURL string

	RateLimiter *dfmiddleware.IPRateLimiter
	Sessions    dfmiddleware.SessionVerifier
	// Health é opcional; sem ele /health responde apenas que o processo está de pé.
	Health handlers.Pinger

	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Donations *handlers.DonationHandler
}

// SetupRouter configura e retorna uma instância do Gin Engine.
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	// Adicionar middlewares globais
	router.Use(dfmiddleware.Metrics())
	router.Use(dfmiddleware.GinZap(deps.Logger, time.RFC3339, true))
	router.Use(dfmiddleware.GinRecovery(deps.Logger))
	router.Use(dfmiddleware.SecurityHeaders())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if deps.RateLimiter != nil {
		router.Use(dfmiddleware.RateLimit(deps.RateLimiter))
	}

	// Endpoint para métricas Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", handlers.HealthHandler(deps.Health, deps.Logger))
	router.GET("/status", handlers.StatusHandler(deps.Environment))

	requireSession := dfmiddleware.RequireSession(deps.Sessions, deps.Logger)

	setupAuthRoutes(router, deps.Auth)
	setupUserRoutes(router, deps.Users, requireSession)
	setupDonationRoutes(router, deps.Donations, requireSession)

	return router
}

func setupAuthRoutes(r *gin.Engine, h *handlers.AuthHandler) {
	authRoutes := r.Group("/autenticacao")
	{
		authRoutes.POST("/recuperar-senha", h.RecuperarSenha)
		authRoutes.POST("/redefinir-senha/:token", h.RedefinirSenha)
		authRoutes.POST("/login", h.Login)
	}
}

func setupUserRoutes(r *gin.Engine, h *handlers.UserHandler, requireSession gin.HandlerFunc) {
	userRoutes := r.Group("/usuarios")
	// Cadastro é público: o cliente cria a conta no provedor e depois o documento.
	userRoutes.POST("", h.CriarUsuario)

	protected := userRoutes.Group("", requireSession)
	{
		protected.GET("", h.ListarUsuarios)
		protected.GET("/email/:email", h.BuscarPorEmail)
		protected.GET("/cnpj/:cnpj", h.BuscarPorCNPJ)
		protected.GET("/:id", h.ObterUsuario)
		protected.PUT("/:id", h.AtualizarUsuario)
		protected.DELETE("/:id", h.ExcluirUsuario)
	}
}

func setupDonationRoutes(r *gin.Engine, h *handlers.DonationHandler, requireSession gin.HandlerFunc) {
	donationRoutes := r.Group("/doacoes", requireSession)
	{
		donationRoutes.POST("", h.CriarDoacao)
		donationRoutes.GET("", h.ListarDoacoes)
		donationRoutes.GET("/doador/:id", h.BuscarPorDoador)
		donationRoutes.GET("/beneficiario/:id", h.BuscarPorBeneficiario)
		donationRoutes.GET("/:id", h.ObterDoacao)
		donationRoutes.PATCH("/:id", h.AtualizarDoacao)
		donationRoutes.DELETE("/:id", h.ExcluirDoacao)
	}
}
