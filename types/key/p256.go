package key

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	crand "crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"
)

const (
	p256PublicLen    = 65
	p256SignatureLen = 64
	p256SharedLen    = 16
)

type p256Suite struct{}

// P256 is the suite spoken by wallet endpoints: ECDSA P-256 association keys with raw
// r||s signatures, ECDH P-256 key agreement, and AES-128-GCM.
func P256() Suite {
	return p256Suite{}
}

func (p256Suite) Name() string      { return SuiteP256 }
func (p256Suite) PublicLen() int    { return p256PublicLen }
func (p256Suite) SignatureLen() int { return p256SignatureLen }
func (p256Suite) sharedKeyLen() int { return p256SharedLen }

func (p256Suite) newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (s p256Suite) NewAssociation() (AssociationPrivate, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), crand.Reader)
	if err != nil {
		return AssociationPrivate{}, fmt.Errorf("could not generate association key: %w", err)
	}
	pub, err := priv.PublicKey.ECDH()
	if err != nil {
		return AssociationPrivate{}, err
	}

	return AssociationPrivate{
		suite: s,
		pub:   AssociationPublic{raw: string(pub.Bytes())},
		sign: func(msg []byte) ([]byte, error) {
			h := sha256.Sum256(msg)
			r, ss, err := ecdsa.Sign(crand.Reader, priv, h[:])
			if err != nil {
				return nil, err
			}
			sig := make([]byte, p256SignatureLen)
			r.FillBytes(sig[:32])
			ss.FillBytes(sig[32:])
			return sig, nil
		},
	}, nil
}

func (s p256Suite) NewEphemeral() (EphemeralPrivate, error) {
	priv, err := ecdh.P256().GenerateKey(crand.Reader)
	if err != nil {
		return EphemeralPrivate{}, fmt.Errorf("could not generate ephemeral key: %w", err)
	}

	return EphemeralPrivate{
		suite: s,
		pub:   EphemeralPublic{raw: string(priv.PublicKey().Bytes())},
		agree: func(peer EphemeralPublic) ([]byte, error) {
			pk, err := ecdh.P256().NewPublicKey(peer.Bytes())
			if err != nil {
				return nil, err
			}
			return priv.ECDH(pk)
		},
	}, nil
}

func (s p256Suite) ParseAssociationPublic(b []byte) (AssociationPublic, error) {
	if _, err := ecdh.P256().NewPublicKey(b); err != nil {
		return AssociationPublic{}, fmt.Errorf("invalid association public key: %w", err)
	}
	return AssociationPublic{raw: string(b)}, nil
}

func (s p256Suite) ParseEphemeralPublic(b []byte) (EphemeralPublic, error) {
	if _, err := ecdh.P256().NewPublicKey(b); err != nil {
		return EphemeralPublic{}, fmt.Errorf("invalid ephemeral public key: %w", err)
	}
	return EphemeralPublic{raw: string(b)}, nil
}

func (s p256Suite) Verify(pub AssociationPublic, msg, sig []byte) bool {
	if len(sig) != p256SignatureLen || pub.IsZero() {
		return false
	}
	//nolint:staticcheck // crypto/ecdsa has no uncompressed point parser before go1.25
	x, y := elliptic.Unmarshal(elliptic.P256(), pub.Bytes())
	if x == nil {
		return false
	}
	h := sha256.Sum256(msg)
	r := new(big.Int).SetBytes(sig[:32])
	ss := new(big.Int).SetBytes(sig[32:])
	return ecdsa.Verify(&ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, h[:], r, ss)
}
