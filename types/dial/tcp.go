package dial

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCP dials the wallet's local listener, and fails after opts.ConnectTimeout.
func TCP(ctx context.Context, opts Opts) (net.Conn, error) {
	opts.SetDefaults()

	dialCtx, dialCancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer dialCancel()

	addr := net.JoinHostPort(opts.Host, fmt.Sprint(opts.Port))

	conn, err := dialOneTCP(dialCtx, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", addr, err)
	}

	return conn, nil
}

func dialOneTCP(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	d.LocalAddr = nil
	d.KeepAlive = time.Second * 10

	return d.DialContext(ctx, "tcp", addr)
}
