package identity

// Códigos de erro do provedor de identidade.
const (
	CodeIDTokenExpired      = "auth/id-token-expired"
	CodeIDTokenRevoked      = "auth/id-token-revoked"
	CodeInvalidIDToken      = "auth/invalid-id-token"
	CodeUserDisabled        = "auth/user-disabled"
	CodeUserNotFound        = "auth/user-not-found"
	CodeEmailAlreadyExists  = "auth/email-already-exists"
	CodeInvalidEmail        = "auth/invalid-email"
	CodeInvalidPassword     = "auth/invalid-password"
	CodeWeakPassword        = "auth/weak-password"
	CodeTooManyRequests     = "auth/too-many-requests"
	CodeOperationNotAllowed = "auth/operation-not-allowed"
	CodeInternalError       = "auth/internal-error"
	CodeUnknown             = "auth/unknown"
)

var authMessages = map[string]string{
	CodeIDTokenExpired:      "Sua sessão expirou. Faça login novamente.",
	CodeIDTokenRevoked:      "Seu acesso foi revogado. Faça login novamente.",
	CodeInvalidIDToken:      "Token de autenticação inválido. Tente novamente.",
	CodeUserDisabled:        "Sua conta foi desativada. Contate o suporte.",
	CodeUserNotFound:        "Usuário não encontrado.",
	CodeEmailAlreadyExists:  "Este e-mail já está em uso.",
	CodeInvalidEmail:        "O e-mail informado é inválido.",
	CodeInvalidPassword:     "A senha informada é inválida.",
	CodeWeakPassword:        "A senha é muito fraca. Use pelo menos 6 caracteres.",
	CodeTooManyRequests:     "Muitas tentativas. Tente novamente mais tarde.",
	CodeOperationNotAllowed: "Operação não permitida. Contate o suporte.",
	CodeInternalError:       "Erro interno do servidor. Tente novamente mais tarde.",
}

const defaultAuthMessage = "Ocorreu um erro de autenticação. Tente novamente."

// MessageFor traduz um código do provedor para a mensagem exibida ao usuário.
func MessageFor(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return defaultAuthMessage
}
