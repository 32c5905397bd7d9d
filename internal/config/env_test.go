package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	for _, key := range []string{"HOST", "PAIRING_RELAY_URL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("PORT", "9090")

	require.NoError(t, Init())
	t.Cleanup(func() { Set(nil) })

	assert.Equal(t, "localhost:9090", GetListenAddr())
	assert.Equal(t, "ws://localhost:9090/ws/pair", Get().PairingRelayURL)
	assert.Empty(t, Get().AllowedOrigins)
	assert.Equal(t, int64(56), GetChainID())
}

func TestAllowedOriginsList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	require.NoError(t, Init())
	t.Cleanup(func() { Set(nil) })

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, Get().AllowedOrigins)
}
