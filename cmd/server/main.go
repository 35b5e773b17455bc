package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doefood/backend/internal/auth"
	"doefood/backend/internal/database"
	"doefood/backend/internal/docstore"
	"doefood/backend/internal/handlers"
	"doefood/backend/internal/identity"
	dfmiddleware "doefood/backend/internal/middleware"
	"doefood/backend/internal/models"
	"doefood/backend/internal/notifications"
	"doefood/backend/internal/passwordreset"
	"doefood/backend/internal/router"
	"doefood/backend/internal/users"
	"doefood/backend/pkg/config"
	dflog "doefood/backend/pkg/log"
	"doefood/backend/pkg/metrics"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// backends agrupa o armazenamento e o provedor de identidade escolhidos pela configuração.
type backends struct {
	users     docstore.Store[models.User]
	donations docstore.Store[models.Donation]
	pinger    handlers.Pinger

	accounts passwordreset.AccountProvider
	sessions dfmiddleware.SessionVerifier
	signIn   handlers.SignInProvider

	closers []func() error
}

func main() {
	config.LoadConfig()
	dflog.Init(config.Cfg.LogLevel, config.Cfg.Environment)
	defer dflog.Sync()
	logger := dflog.L

	metrics.SetAppVersion(config.Cfg.AppVersion)
	if config.Cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	b, err := buildBackends(ctx, config.Cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize backends", zap.Error(err))
	}
	defer b.close(logger)

	directory := users.NewDirectory(b.users)
	codec := auth.NewResetTokenCodec(config.Cfg.JWTSecret, config.Cfg.JWTExpiration)
	if config.Cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET não configurado: a redefinição de senha falhará até que seja definido")
	}
	notifier := notifications.NewEmailNotifier(ctx, config.Cfg, logger)
	resets := passwordreset.New(logger, directory, codec, b.accounts, notifications.NewResetLinkSender(notifier), config.Cfg.FrontendURL)

	engine := router.SetupRouter(router.Dependencies{
		Logger:      logger,
		Environment: config.Cfg.Environment,
		FrontendURL: config.Cfg.FrontendURL,
		RateLimiter: dfmiddleware.NewIPRateLimiter(config.Cfg.RateLimitWindow, config.Cfg.RateLimitMax),
		Sessions:    b.sessions,
		Health:      b.pinger,
		Auth:        handlers.NewAuthHandler(resets, b.signIn, logger),
		Users:       handlers.NewUserHandler(directory),
		Donations:   handlers.NewDonationHandler(b.donations),
	})

	server := &http.Server{
		Addr:              ":" + config.Cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Servidor DoeFood iniciado",
			zap.String("address", server.Addr),
			zap.String("environment", config.Cfg.Environment),
			zap.String("docstore", config.Cfg.DocStoreProvider),
			zap.String("identity", config.Cfg.IdentityProvider),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	<-stopCh

	logger.Info("Encerrando o servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Servidor encerrado.")
}

func buildBackends(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*backends, error) {
	b := &backends{}

	var app *firebase.App
	firebaseApp := func() (*firebase.App, error) {
		if app != nil {
			return app, nil
		}
		var err error
		app, err = identity.NewFirebaseApp(ctx, cfg.GCPProjectID, cfg.GoogleCredentialsFile)
		return app, err
	}

	needsDB := cfg.DocStoreProvider == "postgres" || cfg.IdentityProvider == "local"
	if needsDB {
		if err := database.ConnectDB(cfg.DSN()); err != nil {
			return nil, err
		}
		if err := database.RunMigrations(database.GetDB()); err != nil {
			return nil, err
		}
		if sqlDB, err := database.GetDB().DB(); err == nil {
			b.closers = append(b.closers, sqlDB.Close)
		}
	}

	switch cfg.DocStoreProvider {
	case "firestore":
		fbApp, err := firebaseApp()
		if err != nil {
			return nil, err
		}
		client, err := fbApp.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		userStore := docstore.NewFirestoreStore[models.User](client, models.CollectionUsers)
		b.users = userStore
		b.pinger = userStore
		b.donations = docstore.NewFirestoreStore[models.Donation](client, models.CollectionDonations)
	case "postgres":
		userStore := docstore.NewPostgresStore[models.User](database.GetDB(), models.CollectionUsers)
		b.users = userStore
		b.pinger = userStore
		b.donations = docstore.NewPostgresStore[models.Donation](database.GetDB(), models.CollectionDonations)
	case "memory":
		logger.Warn("Usando document store em memória: os dados não sobrevivem a um restart")
		userStore := docstore.NewMemoryStore[models.User]()
		b.users = userStore
		b.pinger = userStore
		b.donations = docstore.NewMemoryStore[models.Donation]()
	default:
		return nil, fmt.Errorf("unsupported DOCSTORE_PROVIDER %q", cfg.DocStoreProvider)
	}

	switch cfg.IdentityProvider {
	case "firebase":
		fbApp, err := firebaseApp()
		if err != nil {
			return nil, err
		}
		client, err := fbApp.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
		}
		provider := identity.NewFirebaseProvider(client, logger)
		b.accounts = provider
		b.sessions = provider
	case "local":
		sessions := auth.NewSessionTokens(cfg.JWTSecret, cfg.SessionTokenLifespan)
		provider := identity.NewLocalProvider(database.GetDB(), sessions, logger)
		b.accounts = provider
		b.sessions = provider
		b.signIn = provider
	default:
		return nil, fmt.Errorf("unsupported IDENTITY_PROVIDER %q", cfg.IdentityProvider)
	}

	return b, nil
}

func (b *backends) close(logger *zap.Logger) {
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil {
			logger.Warn("Erro ao fechar recurso", zap.Error(err))
		}
	}
}
