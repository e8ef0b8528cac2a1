// Package wallet runs sessions against a wallet that listens on a local websocket.
//
// A session is one Transact call: the wallet is associated out of band, the socket is opened with
// bounded retries, a hello handshake derives a session secret, and the caller's logic runs against a
// *Wallet whose capability calls travel as encrypted JSON-RPC frames. Everything is released when
// Transact returns.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/edup2p/mwa/types/assoc"
)

type outcome[T any] struct {
	v   T
	err error
}

// Transact runs fn against a freshly established wallet session, and returns what fn returns,
// or the error that ended the session first.
//
// The ctx handed to fn is cancelled once Transact returns. If cfg is nil, defaults are used.
func Transact[T any](ctx context.Context, fn func(ctx context.Context, w *Wallet) (T, error), cfg *Config) (res T, err error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.SetDefaults()

	if err := c.SecureContext(c.Dial); err != nil {
		return res, &Error{Code: ErrorSecureContextRequired, Err: err}
	}

	defer func() {
		c.Metrics.session(err)
	}()

	assocPriv, err := c.Suite.NewAssociation()
	if err != nil {
		return res, fmt.Errorf("could not generate association keypair: %w", err)
	}

	port, err := c.Bootstrap.Start(ctx, assocPriv.Public(), c.BaseURL)
	if err != nil {
		return res, bootstrapError(err)
	}
	c.Dial.Port = port

	s := newSession(ctx, &c)
	defer func() {
		cause := err
		if cause == nil {
			cause = &Error{Code: ErrorSessionClosed, Err: ErrCallerExited}
		}
		s.teardown(cause)
	}()

	if err := s.st.connecting(assocPriv); err != nil {
		return res, err
	}

	s.log.Debug("associating", "suite", c.Suite.Name(), "url", c.Dial.URL())

	s.sock.open()

	return run(s, fn)
}

func run[T any](s *session, fn func(ctx context.Context, w *Wallet) (T, error)) (res T, err error) {
	done := make(chan outcome[T], 1)

	for {
		select {
		case <-s.ctx.Done():
			return res, context.Cause(s.ctx)
		case o := <-done:
			return o.v, o.err
		case ev := <-s.sock.Events():
			connected, err := s.handle(ev)
			if err != nil {
				return res, err
			}

			if connected {
				w := newWallet(s)
				go func() {
					var o outcome[T]
					defer func() {
						if v := recover(); v != nil {
							o.err = fmt.Errorf("session logic panicked: %v", v)
						}
						done <- o
					}()

					o.v, o.err = fn(s.ctx, w)
				}()
			}
		}
	}
}

func bootstrapError(err error) error {
	switch {
	case errors.Is(err, assoc.ErrForbiddenBaseURL):
		return &Error{Code: ErrorForbiddenWalletBaseURL, Err: err}
	case errors.Is(err, assoc.ErrWalletNotFound):
		return &Error{Code: ErrorWalletNotFound, Err: err}
	default:
		return fmt.Errorf("association bootstrap failed: %w", err)
	}
}
