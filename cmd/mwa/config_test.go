package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edup2p/mwa/types/assoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	p := filepath.Join(t.TempDir(), "mwa.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	p := writeFile(t, `
suite = "curve25519"
port = 51000
retry_delay = "10ms"
max_attempts = 5
launcher = ["echo"]

[app]
name = "demo"
chain = "solana:mainnet"
`)

	cfg, err := loadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "curve25519", cfg.Suite)
	assert.Equal(t, uint16(51000), cfg.Port)
	assert.Equal(t, 10*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, []string{"echo"}, cfg.Launcher)
	assert.Equal(t, "demo", cfg.AppName)
	assert.Equal(t, "solana:mainnet", cfg.Chain)
	assert.Equal(t, "", cfg.Host)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(writeFile(t, `port = 70000`))
	assert.ErrorContains(t, err, "out of range")

	_, err = loadConfig(writeFile(t, `retry_delay = "soon"`))
	assert.ErrorContains(t, err, "retry_delay")

	_, err = loadConfig(writeFile(t, `port = [`))
	assert.Error(t, err)
}

func TestWalletConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Port = 52000
	cfg.Suite = "curve25519"

	wcfg, err := walletConfig(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, assoc.Static{Port: 52000}, wcfg.Bootstrap)
	assert.Equal(t, "curve25519", wcfg.Suite.Name())

	cfg.Port = 0
	wcfg, err = walletConfig(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &assoc.LocalBootstrap{}, wcfg.Bootstrap)

	cfg.Suite = "rot13"
	_, err = walletConfig(cfg, nil)
	assert.Error(t, err)
}

func TestIdentity(t *testing.T) {
	id := identity(Config{AppName: "demo"})

	assert.True(t, id.Name.Valid)
	assert.Equal(t, "demo", id.Name.Val)
	assert.False(t, id.URI.Valid)
	assert.False(t, id.Icon.Valid)
}
