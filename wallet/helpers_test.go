package wallet

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edup2p/mwa/types/assoc"
	"github.com/edup2p/mwa/types/dial"
	"github.com/edup2p/mwa/wallet/wallettest"
	"github.com/gorilla/websocket"
)

func walletConfig(w *wallettest.Wallet) *Config {
	return &Config{
		Suite:     w.Suite(),
		Bootstrap: w,
		Dial:      w.Opts(),
	}
}

type fakeRead struct {
	mt  int
	b   []byte
	err error
}

// fakeConn is a scripted websocket connection.
type fakeConn struct {
	in chan fakeRead

	mu      sync.Mutex
	written [][]byte
	closes  int

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan fakeRead, 8), closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case r := <-f.in:
		return r.mt, r.b, r.err
	case <-f.closed:
		return 0, nil, net.ErrClosed
	}
}

func (f *fakeConn) WriteMessage(_ int, b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closes > 0 {
		return net.ErrClosed
	}
	f.written = append(f.written, b)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()

	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closes
}

func (f *fakeConn) closeWith(code int, reason string) {
	f.in <- fakeRead{err: &websocket.CloseError{Code: code, Text: reason}}
}

func fakeConfig(conn *fakeConn) *Config {
	return &Config{
		Bootstrap: assoc.Static{Port: 50000},
		Dial:      dial.Opts{RetryDelay: time.Millisecond},
		Dialer: func(context.Context, dial.Opts) (dial.Conn, error) {
			return conn, nil
		},
	}
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}

	panic("unreachable")
}

type countingConn struct {
	dial.Conn
	closes atomic.Int32
}

func (c *countingConn) Close() error {
	c.closes.Add(1)
	return c.Conn.Close()
}

// closeCounter dials real websockets and counts how often each one is closed.
type closeCounter struct {
	mu    sync.Mutex
	conns []*countingConn
}

func (cc *closeCounter) dial(ctx context.Context, opts dial.Opts) (dial.Conn, error) {
	c, err := dial.WebSocket(ctx, opts)
	if err != nil {
		return nil, err
	}

	counted := &countingConn{Conn: c}

	cc.mu.Lock()
	cc.conns = append(cc.conns, counted)
	cc.mu.Unlock()

	return counted, nil
}

func (cc *closeCounter) counts() []int32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	var out []int32
	for _, c := range cc.conns {
		out = append(out, c.closes.Load())
	}
	return out
}
