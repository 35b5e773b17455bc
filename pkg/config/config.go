package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig detém a configuração da aplicação.
type AppConfig struct {
	Port        string
	Environment string // "development", "staging", "production"
	LogLevel    string
	AppVersion  string
	FrontendURL string

	// Segredo e validade dos tokens de redefinição de senha.
	JWTSecret     string
	JWTExpiration time.Duration
	// Validade das sessões emitidas pelo provedor de identidade local.
	SessionTokenLifespan time.Duration

	DocStoreProvider      string // "firestore", "postgres", "memory"
	IdentityProvider      string // "firebase", "local"
	GCPProjectID          string
	GoogleCredentialsFile string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	EnableDBSSL bool

	EmailProvider     string // "ses", "smtp", "log"
	EmailFrom         string
	AWSRegion         string
	AWSSESEmailSender string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string

	RateLimitWindow time.Duration
	RateLimitMax    int

	FeatureToggles map[string]bool
}

var Cfg AppConfig

// LoadConfig carrega a configuração da aplicação de variáveis de ambiente.
func LoadConfig() {
	// Carregar .env para desenvolvimento local, ignorar erro se não existir (para produção)
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: Arquivo .env não encontrado ou erro ao carregar:", err)
	}

	Cfg.Port = getEnv("PORT", "3000")
	Cfg.Environment = getEnv("ENVIRONMENT", getEnv("NODE_ENV", "development"))
	Cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	Cfg.AppVersion = getEnv("APP_VERSION", "unknown")
	Cfg.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:5173")

	// Sem default: a ausência do segredo só é reportada no primeiro uso do codec.
	Cfg.JWTSecret = os.Getenv("JWT_SECRET")
	Cfg.JWTExpiration = getEnvAsDuration("JWT_EXPIRATION", time.Hour)
	Cfg.SessionTokenLifespan = time.Duration(getEnvAsInt("SESSION_TOKEN_LIFESPAN_HOURS", 24)) * time.Hour

	Cfg.DocStoreProvider = strings.ToLower(getEnv("DOCSTORE_PROVIDER", "firestore"))
	Cfg.IdentityProvider = strings.ToLower(getEnv("IDENTITY_PROVIDER", "firebase"))
	Cfg.GCPProjectID = getEnv("GCP_PROJECT_ID", "")
	Cfg.GoogleCredentialsFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", "serviceAccountKey.json")

	Cfg.DBHost = getEnv("DB_HOST", "localhost")
	Cfg.DBPort = getEnv("DB_PORT", "5432")
	Cfg.DBUser = getEnv("DB_USER", "doefood_user")
	Cfg.DBPassword = getEnv("DB_PASSWORD", "doefood_pass")
	Cfg.DBName = getEnv("DB_NAME", "doefood_db")
	Cfg.EnableDBSSL = getEnvAsBool("DB_SSL_ENABLE", false)

	Cfg.EmailProvider = strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp"))
	Cfg.EmailFrom = getEnv("EMAIL_FROM", `"Suporte DoeFood" <suporte@doefood.com>`)
	Cfg.AWSRegion = getEnv("AWS_REGION", "")
	Cfg.AWSSESEmailSender = getEnv("AWS_SES_EMAIL_SENDER", "")
	Cfg.SMTPHost = getEnv("SMTP_HOST", "smtp.ethereal.email")
	Cfg.SMTPPort = getEnvAsInt("SMTP_PORT", 587)
	Cfg.SMTPUser = getEnv("ETHEREAL_USER", "")
	Cfg.SMTPPassword = os.Getenv("ETHEREAL_PASS")

	Cfg.RateLimitWindow = time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute
	Cfg.RateLimitMax = getEnvAsInt("RATE_LIMIT_MAX", 100)

	Cfg.FeatureToggles = loadFeatureToggles(os.Environ())

	log.Printf("Configuração carregada para o ambiente: %s", Cfg.Environment)
}

// DSN monta a string de conexão do Postgres usada pelo document store e pelo provedor local.
func (c AppConfig) DSN() string {
	sslMode := "disable"
	if c.EnableDBSSL {
		sslMode = "require"
	}
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=" + sslMode + " TimeZone=UTC"
}

// loadFeatureToggles lê variáveis FEATURE_<NOME>=true|false.
// A chave armazenada é o nome sem o prefixo.
func loadFeatureToggles(environ []string) map[string]bool {
	toggles := make(map[string]bool)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, "FEATURE_") {
			continue
		}
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("Aviso: feature toggle '%s' com valor inválido '%s', considerada desabilitada.", key, value)
			continue
		}
		toggles[strings.TrimPrefix(key, "FEATURE_")] = enabled
	}
	return toggles
}

// getEnv retorna o valor de uma variável de ambiente ou um valor default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsBool retorna o valor booleano de uma variável de ambiente ou um valor default.
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Aviso: Variável de ambiente booleana '%s' com valor inválido '%s', usando default: %t. Erro: %v", key, valStr, defaultValue, err)
		return defaultValue
	}
	return valBool
}

func getEnvAsInt(key string, defaultValue int) int {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	valInt, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Aviso: Variável de ambiente inteira '%s' com valor inválido '%s', usando default: %d. Erro: %v", key, valStr, defaultValue, err)
		return defaultValue
	}
	return valInt
}

// getEnvAsDuration aceita durações Go ("1h", "30m") ou um número puro de segundos.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	d, err := ParseExpiration(valStr)
	if err != nil {
		log.Printf("Aviso: Variável de ambiente '%s' com duração inválida '%s', usando default: %s. Erro: %v", key, valStr, defaultValue, err)
		return defaultValue
	}
	return d
}

// ParseExpiration converte "1h", "15m", "2d" ou "3600" (segundos) em time.Duration.
func ParseExpiration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}
