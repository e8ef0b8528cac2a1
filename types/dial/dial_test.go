package dial

import (
	"context"
	"log/slog"
	"net"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	var o Opts
	o.SetDefaults()

	assert.Equal(t, "localhost", o.Host)
	assert.Equal(t, "/solana-wallet", o.Path)
	assert.Equal(t, "com.solana.mobilewalletadapter.v1", o.Subprotocol)
	assert.Equal(t, 34, o.MaxAttempts)
	assert.Equal(t, 150*time.Millisecond, o.RetryDelay)
	assert.Equal(t, 5*time.Second, o.ConnectTimeout)

	o = Opts{MaxAttempts: 2, RetryDelay: time.Millisecond}
	o.SetDefaults()
	assert.Equal(t, 2, o.MaxAttempts)
	assert.Equal(t, time.Millisecond, o.RetryDelay)
}

func TestURL(t *testing.T) {
	o := Opts{Port: 51234}
	o.SetDefaults()

	assert.Equal(t, "ws://localhost:51234/solana-wallet", o.URL())

	o.Host = "::1"
	assert.Equal(t, "ws://[::1]:51234/solana-wallet", o.URL())
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, Opts{Host: "localhost"}.IsLoopback())
	assert.True(t, Opts{Host: "127.0.0.1"}.IsLoopback())
	assert.True(t, Opts{Host: "::1"}.IsLoopback())
	assert.False(t, Opts{Host: "example.com"}.IsLoopback())
	assert.False(t, Opts{Host: "10.0.0.1"}.IsLoopback())
}

type echoServer struct {
	accepted chan struct{}
}

func (e *echoServer) Logger() *slog.Logger { return slog.Default() }

func (e *echoServer) Accept(_ context.Context, c *websocket.Conn) error {
	defer c.Close()
	close(e.accepted)

	for {
		mt, b, err := c.ReadMessage()
		if err != nil {
			return nil
		}
		if err := c.WriteMessage(mt, b); err != nil {
			return err
		}
	}
}

func serverOpts(t *testing.T, srv *httptest.Server) Opts {
	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)

	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	return Opts{Host: host, Port: uint16(p)}
}

func TestWebSocketRoundTrip(t *testing.T) {
	s := &echoServer{accepted: make(chan struct{})}
	srv := httptest.NewServer(HTTPHandler(s, DefaultSubprotocol))
	defer srv.Close()

	c, err := WebSocket(context.Background(), serverOpts(t, srv))
	require.NoError(t, err)
	defer c.Close()

	<-s.accepted

	require.NoError(t, c.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}))

	mt, b, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)
	assert.Equal(t, []byte{1, 2, 3}, b)
}

func TestWebSocketSubprotocolRejected(t *testing.T) {
	s := &echoServer{accepted: make(chan struct{})}
	srv := httptest.NewServer(HTTPHandler(s, "something.else"))
	defer srv.Close()

	_, err := WebSocket(context.Background(), serverOpts(t, srv))
	assert.ErrorIs(t, err, ErrSubprotocolRejected)
}

func TestWebSocketNothingListening(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	_, err = WebSocket(context.Background(), Opts{Host: "127.0.0.1", Port: uint16(port), ConnectTimeout: time.Second})
	assert.Error(t, err)
}

func TestWebSocketUpgradeStallTimesOut(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	// Accepts TCP, but never answers the upgrade.
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			defer c.Close()
		}
	}()

	port := l.Addr().(*net.TCPAddr).Port
	start := time.Now()

	_, err = WebSocket(context.Background(), Opts{Host: "127.0.0.1", Port: uint16(port), ConnectTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
