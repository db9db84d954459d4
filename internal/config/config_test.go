package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("CLIENT_TOKEN", "token")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, "datastore.json", cfg.StoragePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.CommandCooldown)
	assert.Equal(t, 3, cfg.CommandBurst)
	assert.Empty(t, cfg.DevGuildID)
}

func TestParseRequiresToken(t *testing.T) {
	t.Setenv("CLIENT_TOKEN", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestParseClampsBurst(t *testing.T) {
	t.Setenv("CLIENT_TOKEN", "token")
	t.Setenv("COMMAND_BURST", "0")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.CommandBurst)
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("CLIENT_TOKEN", "")
	t.Setenv("LOCAL_DEV_GUILD_ID", "")
	os.Unsetenv("CLIENT_TOKEN")
	os.Unsetenv("LOCAL_DEV_GUILD_ID")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CLIENT_TOKEN=from-file\nLOCAL_DEV_GUILD_ID=42\n"), 0o644))

	cfg, loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "from-file", cfg.DiscordToken)
	assert.Equal(t, "42", cfg.DevGuildID)
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("CLIENT_TOKEN", "token")

	cfg, loaded, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, "token", cfg.DiscordToken)
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "📢 Utilities", CategoryTitle("utility"))
	assert.Equal(t, "custom", CategoryTitle("custom"))
	assert.Less(t, CategoryWeight("utility"), CategoryWeight("development"))
	assert.Equal(t, 100, CategoryWeight("custom"))
}
