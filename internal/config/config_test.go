package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.DiscordToken)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Empty(t, cfg.VoiceChannelIDs)
	assert.False(t, cfg.SkipUnnamed)
}

func TestLoadChannelList(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("VOICE_CHANNEL_IDS", "123, 456,,789")
	t.Setenv("SKIP_UNNAMED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"123", "456", "789"}, cfg.VoiceChannelIDs)
	assert.True(t, cfg.SkipUnnamed)
}
