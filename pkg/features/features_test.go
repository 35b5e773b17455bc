package features

import (
	"testing"

	"doefood/backend/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestIsEnabled(t *testing.T) {
	original := config.Cfg.FeatureToggles
	defer func() { config.Cfg.FeatureToggles = original }()

	config.Cfg.FeatureToggles = nil
	assert.False(t, IsEnabled(MaskUnknownEmail))

	config.Cfg.FeatureToggles = map[string]bool{MaskUnknownEmail: true, "OFF": false}
	assert.True(t, IsEnabled(MaskUnknownEmail))

	enabled, exists := GetFeatureToggleState("OFF")
	assert.False(t, enabled)
	assert.True(t, exists)

	_, exists = GetFeatureToggleState("UNKNOWN")
	assert.False(t, exists)
}
