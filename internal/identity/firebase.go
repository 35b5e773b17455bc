package identity

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// NewFirebaseApp inicializa o Firebase Admin SDK com a chave da conta de serviço, quando existir.
// Sem o arquivo, usa as Application Default Credentials do ambiente.
func NewFirebaseApp(ctx context.Context, projectID, credentialsFile string) (*firebase.App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err == nil {
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}

// firebaseAuthClient é o subconjunto de *auth.Client usado pelo provedor.
type firebaseAuthClient interface {
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseProvider implementa Provider sobre o Firebase Authentication.
type FirebaseProvider struct {
	client firebaseAuthClient
	logger *zap.Logger
}

func NewFirebaseProvider(client *auth.Client, logger *zap.Logger) *FirebaseProvider {
	return &FirebaseProvider{client: client, logger: logger.Named("firebase_auth")}
}

func (p *FirebaseProvider) FindAccountByEmail(ctx context.Context, email string) (string, error) {
	user, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return "", ErrAccountNotFound
		}
		return "", mapFirebaseError(err)
	}
	return user.UID, nil
}

func (p *FirebaseProvider) SetCredential(ctx context.Context, accountID, newPassword string) error {
	// O SDK recusa senhas curtas localmente com um erro sem código.
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	update := (&auth.UserToUpdate{}).Password(newPassword)
	if _, err := p.client.UpdateUser(ctx, accountID, update); err != nil {
		p.logger.Warn("failed to update password", zap.String("uid", accountID), zap.Error(err))
		return mapFirebaseError(err)
	}
	return nil
}

// VerifySessionToken valida o ID token do Firebase, verificando também se foi revogado.
func (p *FirebaseProvider) VerifySessionToken(ctx context.Context, token string) (*Session, error) {
	decoded, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return nil, mapFirebaseError(err)
	}
	email, _ := decoded.Claims["email"].(string)
	return &Session{UID: decoded.UID, Email: email}, nil
}

func mapFirebaseError(err error) error {
	code := CodeInternalError
	switch {
	case auth.IsIDTokenExpired(err):
		code = CodeIDTokenExpired
	case auth.IsIDTokenRevoked(err):
		code = CodeIDTokenRevoked
	case auth.IsIDTokenInvalid(err):
		code = CodeInvalidIDToken
	case auth.IsUserDisabled(err):
		code = CodeUserDisabled
	case auth.IsUserNotFound(err):
		code = CodeUserNotFound
	case auth.IsEmailAlreadyExists(err):
		code = CodeEmailAlreadyExists
	}
	return &AuthError{Code: code, Err: err}
}
