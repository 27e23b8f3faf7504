package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[lobby]
world_name = "Testworld"

[world]
tick_rate = "250ms"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overrides stick.
	assert.Equal(t, "Testworld", cfg.Lobby.WorldName)
	assert.Equal(t, 250*time.Millisecond, cfg.World.TickRate)

	// Everything else keeps its default.
	assert.Equal(t, "0.0.0.0:7000", cfg.Lobby.BindAddress)
	assert.Equal(t, "0.0.0.0:7100", cfg.World.BindAddress)
	assert.Equal(t, "0.0.0.0:7200", cfg.Chat.BindAddress)
	assert.Equal(t, 64*1024, cfg.Game.ReceiveBufferSize)
	assert.Equal(t, 30*time.Second, cfg.Game.HandshakeTimeout)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadBadTomlFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[[not toml"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestResolveOrder(t *testing.T) {
	t.Setenv("XIVGO_CONFIG", "/from/env.toml")
	assert.Equal(t, "/from/flag.toml", Resolve("/from/flag.toml"))
	assert.Equal(t, "/from/env.toml", Resolve(""))

	t.Setenv("XIVGO_CONFIG", "")
	assert.Equal(t, "config/server.toml", Resolve(""))
}
