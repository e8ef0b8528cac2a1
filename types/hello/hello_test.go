package hello

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edup2p/mwa/types/key"
)

func TestHandshakeDerivesMatchingSecrets(t *testing.T) {
	for _, suite := range []key.Suite{key.P256(), key.Curve25519()} {
		t.Run(suite.Name(), func(t *testing.T) {
			assoc, err := suite.NewAssociation()
			require.NoError(t, err)
			clientEph, err := suite.NewEphemeral()
			require.NoError(t, err)

			req, err := CreateRequest(clientEph.Public(), assoc)
			require.NoError(t, err)
			assert.Len(t, req, suite.PublicLen()+suite.SignatureLen())

			gotEph, err := ParseRequest(suite, req, assoc.Public())
			require.NoError(t, err)
			assert.Equal(t, clientEph.Public(), gotEph)

			walletEph, err := suite.NewEphemeral()
			require.NoError(t, err)
			walletShared, err := key.DeriveShared(walletEph, gotEph, assoc.Public())
			require.NoError(t, err)

			clientShared, err := ParseResponse(CreateResponse(walletEph.Public()), assoc.Public(), clientEph)
			require.NoError(t, err)

			clear, ok := clientShared.Open(nil, walletShared.Seal(nil, []byte("ok")))
			require.True(t, ok)
			assert.Equal(t, "ok", string(clear))
		})
	}
}

func TestParseRequestRejectsForeignAssociation(t *testing.T) {
	suite := key.P256()

	assoc, err := suite.NewAssociation()
	require.NoError(t, err)
	other, err := suite.NewAssociation()
	require.NoError(t, err)
	eph, err := suite.NewEphemeral()
	require.NoError(t, err)

	req, err := CreateRequest(eph.Public(), assoc)
	require.NoError(t, err)

	_, err = ParseRequest(suite, req, other.Public())
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParseResponseMalformed(t *testing.T) {
	suite := key.P256()

	assoc, err := suite.NewAssociation()
	require.NoError(t, err)
	eph, err := suite.NewEphemeral()
	require.NoError(t, err)

	_, err = ParseResponse([]byte{4, 1, 2}, assoc.Public(), eph)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = ParseResponse(make([]byte, suite.PublicLen()), assoc.Public(), eph)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
