package invoicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInfaktConfig_Defaults(t *testing.T) {
	cfg := NewInfaktConfig("key")

	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, InfaktProductionHost, cfg.Host)
	assert.Equal(t, "A", cfg.Series)
	assert.True(t, cfg.MarkPaidEnabled)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
}

func TestInfaktConfig_Validate(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		cfg := &InfaktConfig{}
		assert.ErrorIs(t, cfg.Validate(), ErrInfaktConfigMissingAPIKey)
	})

	t.Run("fills base url from host", func(t *testing.T) {
		cfg := &InfaktConfig{APIKey: "key", Host: "sandbox.infakt.pl"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "https://sandbox.infakt.pl", cfg.APIBaseURL)
	})

	t.Run("preserves explicit base url", func(t *testing.T) {
		cfg := &InfaktConfig{APIKey: "key", APIBaseURL: "http://localhost:9999"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:9999", cfg.APIBaseURL)
	})

	t.Run("fills empty fields", func(t *testing.T) {
		cfg := &InfaktConfig{APIKey: "key"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, InfaktProductionHost, cfg.Host)
		assert.Equal(t, "A", cfg.Series)
		assert.Equal(t, 30, cfg.TimeoutSeconds)
	})
}
