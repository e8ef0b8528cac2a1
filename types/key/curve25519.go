package key

import (
	"crypto/cipher"
	"crypto/ed25519"
	crand "crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
)

type curve25519Suite struct{}

// Curve25519 uses Ed25519 association keys, X25519 key agreement and ChaCha20-Poly1305.
//
// Wallet endpoints in the wild speak P256; this suite is for loopback peers that agree on it.
func Curve25519() Suite {
	return curve25519Suite{}
}

func (curve25519Suite) Name() string      { return SuiteCurve25519 }
func (curve25519Suite) PublicLen() int    { return curve25519.PointSize }
func (curve25519Suite) SignatureLen() int { return ed25519.SignatureSize }
func (curve25519Suite) sharedKeyLen() int { return chacha20poly1305.KeySize }

func (curve25519Suite) newAEAD(key []byte) (cipher.AEAD, error) {
	return chacha20poly1305.New(key)
}

func (s curve25519Suite) NewAssociation() (AssociationPrivate, error) {
	pub, priv, err := ed25519.GenerateKey(crand.Reader)
	if err != nil {
		return AssociationPrivate{}, fmt.Errorf("could not generate association key: %w", err)
	}

	return AssociationPrivate{
		suite: s,
		pub:   AssociationPublic{raw: string(pub)},
		sign: func(msg []byte) ([]byte, error) {
			return ed25519.Sign(priv, msg), nil
		},
	}, nil
}

func (s curve25519Suite) NewEphemeral() (EphemeralPrivate, error) {
	scalar := make([]byte, curve25519.ScalarSize)
	rand(scalar)

	pub, err := curve25519.X25519(scalar, curve25519.Basepoint)
	if err != nil {
		return EphemeralPrivate{}, fmt.Errorf("could not generate ephemeral key: %w", err)
	}

	return EphemeralPrivate{
		suite: s,
		pub:   EphemeralPublic{raw: string(pub)},
		agree: func(peer EphemeralPublic) ([]byte, error) {
			return curve25519.X25519(scalar, peer.Bytes())
		},
	}, nil
}

func (s curve25519Suite) ParseAssociationPublic(b []byte) (AssociationPublic, error) {
	if len(b) != ed25519.PublicKeySize {
		return AssociationPublic{}, fmt.Errorf("invalid association public key length %d", len(b))
	}
	return AssociationPublic{raw: string(b)}, nil
}

func (s curve25519Suite) ParseEphemeralPublic(b []byte) (EphemeralPublic, error) {
	if len(b) != curve25519.PointSize {
		return EphemeralPublic{}, fmt.Errorf("invalid ephemeral public key length %d", len(b))
	}
	return EphemeralPublic{raw: string(b)}, nil
}

func (s curve25519Suite) Verify(pub AssociationPublic, msg, sig []byte) bool {
	if len(pub.raw) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub.Bytes()), msg, sig)
}
