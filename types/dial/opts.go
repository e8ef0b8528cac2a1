package dial

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultHost           = "localhost"
	DefaultPath           = "/solana-wallet"
	DefaultSubprotocol    = "com.solana.mobilewalletadapter.v1"
	DefaultConnectTimeout = time.Second * 5
	DefaultMaxAttempts    = 34
	DefaultRetryDelay     = time.Millisecond * 150
)

type Opts struct {
	// If empty, uses localhost
	Host string

	// Must be set before dialing, usually handed out by the association bootstrap
	Port uint16

	// If empty, uses /solana-wallet
	Path string

	// The websocket sub-protocol that the wallet must agree to.
	Subprotocol string

	// Applies to every attempt, including the websocket upgrade.
	//
	// If zero, uses default of 5 seconds
	ConnectTimeout time.Duration

	// Amount of dial attempts before session establishment is considered failed.
	//
	// If zero, uses default of 34
	MaxAttempts int

	// Wait between a failed attempt and the next one.
	//
	// If zero, uses default of 150ms
	RetryDelay time.Duration
}

func (opts *Opts) SetDefaults() {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}

	if opts.Path == "" {
		opts.Path = DefaultPath
	}

	if opts.Subprotocol == "" {
		opts.Subprotocol = DefaultSubprotocol
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}

	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	if opts.RetryDelay == 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
}

// URL returns the websocket endpoint, e.g. ws://localhost:51234/solana-wallet
func (opts Opts) URL() string {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(opts.Host, strconv.Itoa(int(opts.Port))),
		Path:   opts.Path,
	}

	return u.String()
}

// IsLoopback reports whether Host refers to this machine.
func (opts Opts) IsLoopback() bool {
	if opts.Host == "localhost" {
		return true
	}

	ip := net.ParseIP(opts.Host)

	return ip != nil && ip.IsLoopback()
}
