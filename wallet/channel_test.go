package wallet

import (
	"testing"

	"github.com/edup2p/mwa/types/bin"
	"github.com/edup2p/mwa/types/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channelPair(t *testing.T, suite key.Suite) (*channel, *channel) {
	assocPriv, err := suite.NewAssociation()
	require.NoError(t, err)
	a, err := suite.NewEphemeral()
	require.NoError(t, err)
	b, err := suite.NewEphemeral()
	require.NoError(t, err)

	sa, err := key.DeriveShared(a, b.Public(), assocPriv.Public())
	require.NoError(t, err)
	sb, err := key.DeriveShared(b, a.Public(), assocPriv.Public())
	require.NoError(t, err)

	return newChannel(sa), newChannel(sb)
}

func collect(frames *[][]byte) func([]byte) error {
	return func(b []byte) error {
		*frames = append(*frames, b)
		return nil
	}
}

func TestChannelOutboundSequence(t *testing.T) {
	for _, suite := range []key.Suite{key.P256(), key.Curve25519()} {
		t.Run(suite.Name(), func(t *testing.T) {
			client, wallet := channelPair(t, suite)

			var frames [][]byte
			for i := 0; i < 3; i++ {
				require.NoError(t, client.send([]byte(`{"n":1}`), collect(&frames)))
			}

			for i, f := range frames {
				seq, err := bin.SequenceNumber(f)
				require.NoError(t, err)
				assert.Equal(t, uint32(i+1), seq)

				pt, err := wallet.open(f)
				require.NoError(t, err)
				assert.Equal(t, `{"n":1}`, string(pt))
			}
		})
	}
}

func TestChannelRejectsReplayAndReorder(t *testing.T) {
	client, wallet := channelPair(t, key.Curve25519())

	f1 := wallet.seal(1, []byte("one"))
	f3 := wallet.seal(3, []byte("three"))
	f2 := wallet.seal(2, []byte("two"))

	_, err := client.open(f1)
	require.NoError(t, err)

	_, err = client.open(f1)
	assert.ErrorIs(t, err, ErrInvalidSequence)

	_, err = client.open(f3)
	require.NoError(t, err)

	_, err = client.open(f2)
	assert.ErrorIs(t, err, ErrInvalidSequence)
}

func TestChannelRejectsZeroSequence(t *testing.T) {
	client, wallet := channelPair(t, key.P256())

	_, err := client.open(wallet.seal(0, []byte("zero")))
	assert.ErrorIs(t, err, ErrInvalidSequence)
}

func TestChannelTamper(t *testing.T) {
	client, wallet := channelPair(t, key.P256())

	f := wallet.seal(1, []byte("hello"))
	f[len(f)-1] ^= 1

	_, err := client.open(f)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = client.open([]byte{0, 0})
	assert.ErrorIs(t, err, bin.ErrShortFrame)
}

func TestChannelSequenceIsAuthenticated(t *testing.T) {
	client, wallet := channelPair(t, key.Curve25519())

	f := wallet.seal(1, []byte("hello"))
	copy(f, bin.PutUint32(7))

	_, err := client.open(f)
	assert.ErrorIs(t, err, ErrDecrypt)
}
