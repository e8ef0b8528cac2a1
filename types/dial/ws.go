package dial

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

var ErrSubprotocolRejected = errors.New("wallet did not agree to sub-protocol")

// Conn is the part of a websocket connection a session needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens a single websocket connection, it does not retry.
type Dialer func(ctx context.Context, opts Opts) (Conn, error)

// WebSocket dials opts.URL() and requires the wallet to speak opts.Subprotocol.
func WebSocket(ctx context.Context, opts Opts) (Conn, error) {
	opts.SetDefaults()

	d := websocket.Dialer{
		NetDialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return TCP(ctx, opts)
		},
		HandshakeTimeout: opts.ConnectTimeout,
		Subprotocols:     []string{opts.Subprotocol},
	}

	c, resp, err := d.DialContext(ctx, opts.URL(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return nil, fmt.Errorf("websocket upgrade got status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}

	if c.Subprotocol() != opts.Subprotocol {
		c.Close()
		return nil, fmt.Errorf("%w: got %q", ErrSubprotocolRejected, c.Subprotocol())
	}

	return c, nil
}
