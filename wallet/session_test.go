package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openedSession returns a connecting session whose socket has produced its open event, unhandled.
func openedSession(t *testing.T) (*session, *fakeConn, event) {
	conn := newFakeConn()
	cfg := fakeConfig(conn)
	cfg.SetDefaults()

	s := newSession(context.Background(), cfg)
	t.Cleanup(func() { s.teardown(errors.New("test done")) })

	assocPriv, err := cfg.Suite.NewAssociation()
	require.NoError(t, err)
	require.NoError(t, s.st.connecting(assocPriv))

	s.sock.open()

	ev := waitFor(t, s.sock.Events())
	require.Equal(t, eventOpen, ev.kind)

	return s, conn, ev
}

func (f *fakeConn) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.written)
}

func TestSessionOpenOutsideConnectingIsIgnored(t *testing.T) {
	s, conn, ev := openedSession(t)

	connected, err := s.handle(ev)
	require.NoError(t, err)
	assert.False(t, connected)
	assert.Equal(t, StateHelloSent, s.st.state)
	assert.Equal(t, 1, conn.writes())

	eph := s.st.ephPriv

	connected, err = s.handle(event{gen: ev.gen, kind: eventOpen})
	require.NoError(t, err)
	assert.False(t, connected)
	assert.Equal(t, StateHelloSent, s.st.state)
	assert.Equal(t, eph.Public().Bytes(), s.st.ephPriv.Public().Bytes())
	assert.Equal(t, 1, conn.writes())
}

func TestSessionMessageWhileConnectingIsIgnored(t *testing.T) {
	s, conn, ev := openedSession(t)

	connected, err := s.handle(event{gen: ev.gen, kind: eventMessage, data: []byte{0, 0, 0, 1, 2, 3}})
	require.NoError(t, err)
	assert.False(t, connected)
	assert.Equal(t, StateConnecting, s.st.state)
	assert.False(t, s.st.assocPriv.IsZero())
	assert.Nil(t, s.ch)
	assert.Equal(t, 0, conn.writes())
}

func TestSessionStaleEventIsIgnored(t *testing.T) {
	s, conn, ev := openedSession(t)

	connected, err := s.handle(event{gen: ev.gen - 1, kind: eventOpen})
	require.NoError(t, err)
	assert.False(t, connected)
	assert.Equal(t, StateConnecting, s.st.state)
	assert.Equal(t, 0, conn.writes())
}
