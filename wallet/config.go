package wallet

import (
	"fmt"
	"log/slog"

	"github.com/edup2p/mwa/types/assoc"
	"github.com/edup2p/mwa/types/dial"
	"github.com/edup2p/mwa/types/key"
)

type Config struct {
	// If nil, uses key.P256()
	Suite key.Suite

	// If nil, uses an assoc.LocalBootstrap with its default launcher
	Bootstrap assoc.Bootstrapper

	// Optional https base of the wallet's association endpoint.
	BaseURL string

	// Port is filled in from Bootstrap.
	Dial dial.Opts

	// If nil, uses dial.WebSocket
	Dialer dial.Dialer

	// Checked before anything else happens. If nil, requires Dial.Host to be a loopback host.
	SecureContext func(opts dial.Opts) error

	// Optional
	Metrics *Metrics

	// If nil, uses slog.Default()
	Logger *slog.Logger
}

func (c *Config) SetDefaults() {
	if c.Suite == nil {
		c.Suite = key.P256()
	}

	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	if c.Bootstrap == nil {
		c.Bootstrap = &assoc.LocalBootstrap{Logger: c.Logger}
	}

	if c.Dialer == nil {
		c.Dialer = dial.WebSocket
	}

	if c.SecureContext == nil {
		c.SecureContext = LoopbackOnly
	}

	c.Dial.SetDefaults()
}

// LoopbackOnly accepts only wallets on this machine.
func LoopbackOnly(opts dial.Opts) error {
	if !opts.IsLoopback() {
		return fmt.Errorf("host %q is not a loopback host", opts.Host)
	}
	return nil
}
