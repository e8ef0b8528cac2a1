// Package hello holds the two handshake messages that turn a fresh connection into an encrypted session.
//
//	HELLO_REQ: client ephemeral public key || signature of that key by the association key
//	HELLO_RSP: wallet ephemeral public key (trailing bytes are ignored)
package hello

import (
	"errors"
	"fmt"
	"slices"

	"github.com/edup2p/mwa/types/key"
)

var (
	ErrInvalidRequest  = errors.New("invalid hello request")
	ErrInvalidResponse = errors.New("invalid hello response")
)

// CreateRequest builds the first frame a client sends, authenticated with the association key.
func CreateRequest(eph key.EphemeralPublic, assoc key.AssociationPrivate) ([]byte, error) {
	pub := eph.Bytes()

	sig, err := assoc.Sign(pub)
	if err != nil {
		return nil, fmt.Errorf("could not sign hello request: %w", err)
	}

	return slices.Concat(pub, sig), nil
}

// ParseRequest verifies a hello request against the association public key, and returns
// the client's ephemeral public key.
func ParseRequest(suite key.Suite, b []byte, assoc key.AssociationPublic) (key.EphemeralPublic, error) {
	if len(b) != suite.PublicLen()+suite.SignatureLen() {
		return key.EphemeralPublic{}, fmt.Errorf("%w: length %d", ErrInvalidRequest, len(b))
	}

	pub, sig := b[:suite.PublicLen()], b[suite.PublicLen():]

	if !suite.Verify(assoc, pub, sig) {
		return key.EphemeralPublic{}, fmt.Errorf("%w: bad signature", ErrInvalidRequest)
	}

	eph, err := suite.ParseEphemeralPublic(pub)
	if err != nil {
		return key.EphemeralPublic{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return eph, nil
}

// CreateResponse builds the wallet's answer to a hello request.
func CreateResponse(eph key.EphemeralPublic) []byte {
	return eph.Bytes()
}

// ParseResponse reads the wallet's ephemeral key out of a hello response and derives the
// session secret from it.
func ParseResponse(b []byte, assoc key.AssociationPublic, eph key.EphemeralPrivate) (key.SessionShared, error) {
	suite := eph.Suite()

	if len(b) < suite.PublicLen() {
		return key.SessionShared{}, fmt.Errorf("%w: length %d", ErrInvalidResponse, len(b))
	}

	walletPub, err := suite.ParseEphemeralPublic(b[:suite.PublicLen()])
	if err != nil {
		return key.SessionShared{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	shared, err := key.DeriveShared(eph, walletPub, assoc)
	if err != nil {
		return key.SessionShared{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	return shared, nil
}
