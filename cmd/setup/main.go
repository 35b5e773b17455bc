package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"doefood/backend/internal/auth"
	"doefood/backend/internal/database"
	"doefood/backend/internal/docstore"
	"doefood/backend/internal/identity"
	"doefood/backend/internal/models"
	"doefood/backend/internal/users"
	"doefood/backend/pkg/config"
	dflog "doefood/backend/pkg/log"

	"golang.org/x/term" // For password masking
)

// readInput reads a line of text from the console.
func readInput(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads a password from the console, masking the input.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

func userStore(ctx context.Context, cfg config.AppConfig) (docstore.Store[models.User], func(), error) {
	switch cfg.DocStoreProvider {
	case "postgres":
		return docstore.NewPostgresStore[models.User](database.GetDB(), models.CollectionUsers), func() {}, nil
	case "firestore":
		app, err := identity.NewFirebaseApp(ctx, cfg.GCPProjectID, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return docstore.NewFirestoreStore[models.User](client, models.CollectionUsers), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("DOCSTORE_PROVIDER %q não é persistente; use postgres ou firestore", cfg.DocStoreProvider)
	}
}

func main() {
	config.LoadConfig()
	dflog.Init(config.Cfg.LogLevel, config.Cfg.Environment)
	defer dflog.Sync()

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("--- DoeFood Setup ---")

	// 1. Banco de dados
	fmt.Printf("\nConnecting to database %s at %s:%s...\n", config.Cfg.DBName, config.Cfg.DBHost, config.Cfg.DBPort)
	if err := database.ConnectDB(config.Cfg.DSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("\n--- Running Database Migrations ---")
	if err := database.RunMigrations(database.GetDB()); err != nil {
		log.Fatalf("Database migration process failed: %v", err)
	}
	fmt.Println("Database migrations completed successfully.")

	if config.Cfg.IdentityProvider != "local" {
		fmt.Println("\nIDENTITY_PROVIDER não é 'local': as contas são gerenciadas pelo Firebase. Setup concluído.")
		return
	}

	store, closeStore, err := userStore(ctx, config.Cfg)
	if err != nil {
		log.Fatalf("Failed to open user store: %v", err)
	}
	defer closeStore()

	// 2. Primeira conta
	fmt.Println("\n--- Creating First Account ---")
	nome := readInput(reader, "Nome: ")
	email := readInput(reader, "E-mail: ")

	var password string
	for {
		password, err = readPassword("Senha: ")
		if err != nil {
			log.Fatalf("Failed to read password: %v", err)
		}
		if err := identity.ValidatePassword(password); err != nil {
			fmt.Println(identity.MessageFor(identity.CodeOf(err)))
			continue
		}
		confirm, err := readPassword("Confirme a senha: ")
		if err != nil {
			log.Fatalf("Failed to read password confirmation: %v", err)
		}
		if password == confirm {
			break
		}
		fmt.Println("As senhas não conferem. Tente novamente.")
	}

	sessions := auth.NewSessionTokens(config.Cfg.JWTSecret, config.Cfg.SessionTokenLifespan)
	provider := identity.NewLocalProvider(database.GetDB(), sessions, dflog.L)
	uid, err := provider.CreateAccount(ctx, email, password)
	if err != nil {
		log.Fatalf("Failed to create account: %v", err)
	}

	directory := users.NewDirectory(store)
	if _, err := directory.Create(ctx, uid, models.User{Nome: nome, Email: email}); err != nil {
		log.Fatalf("Account %s created but the user document failed: %v", uid, err)
	}
	fmt.Printf("Conta '%s' criada com uid %s.\n", email, uid)

	fmt.Println("\n--- DoeFood Setup Complete! ---")
	fmt.Println("You can now start the main application server.")
}
