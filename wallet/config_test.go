package wallet

import (
	"log/slog"
	"testing"

	"github.com/edup2p/mwa/types/assoc"
	"github.com/edup2p/mwa/types/dial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	log := slog.Default().With("app", "test")

	c := Config{Logger: log}
	c.SetDefaults()

	assert.Equal(t, "p256", c.Suite.Name())
	assert.Equal(t, dial.DefaultMaxAttempts, c.Dial.MaxAttempts)
	assert.Equal(t, dial.DefaultRetryDelay, c.Dial.RetryDelay)

	lb, ok := c.Bootstrap.(*assoc.LocalBootstrap)
	require.True(t, ok)
	assert.Same(t, log, lb.Logger)

	assert.NoError(t, c.SecureContext(c.Dial))
	assert.Error(t, c.SecureContext(dial.Opts{Host: "wallet.example"}))
}
