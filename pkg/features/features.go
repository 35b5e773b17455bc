package features

import (
	"doefood/backend/pkg/config"
)

// MaskUnknownEmail faz /autenticacao/recuperar-senha responder 200 para e-mails sem conta,
// evitando enumeração de contas. Desabilitada por padrão (contrato original responde 404).
const MaskUnknownEmail = "MASK_UNKNOWN_EMAIL"

// IsEnabled verifica se um feature toggle específico está habilitado.
// Os nomes são case-sensitive e correspondem à variável de ambiente sem o prefixo FEATURE_.
func IsEnabled(featureName string) bool {
	enabled, _ := GetFeatureToggleState(featureName)
	return enabled
}

// GetFeatureToggleState retorna o estado de um feature toggle e se ele existe.
// Útil para distinguir uma feature explicitamente desabilitada de uma não configurada.
func GetFeatureToggleState(featureName string) (enabled bool, exists bool) {
	if config.Cfg.FeatureToggles == nil {
		return false, false
	}
	enabled, exists = config.Cfg.FeatureToggles[featureName]
	return enabled, exists
}
