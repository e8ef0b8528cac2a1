package key

import (
	"crypto/cipher"
	"fmt"
)

// Suite bundles the primitives a session needs: an association signature scheme,
// an ephemeral key agreement, and the AEAD the derived secret keys.
//
// Suites are sealed; use P256 or Curve25519.
type Suite interface {
	Name() string

	// PublicLen is the encoded length of an ephemeral public key.
	PublicLen() int
	SignatureLen() int

	NewAssociation() (AssociationPrivate, error)
	NewEphemeral() (EphemeralPrivate, error)

	ParseAssociationPublic(b []byte) (AssociationPublic, error)
	ParseEphemeralPublic(b []byte) (EphemeralPublic, error)

	// Verify reports whether sig is a valid signature of msg by pub.
	Verify(pub AssociationPublic, msg, sig []byte) bool

	sharedKeyLen() int
	newAEAD(key []byte) (cipher.AEAD, error)
}

const (
	SuiteP256       = "p256"
	SuiteCurve25519 = "curve25519"
)

// SuiteByName returns the suite registered under name.
func SuiteByName(name string) (Suite, error) {
	switch name {
	case SuiteP256, "":
		return P256(), nil
	case SuiteCurve25519:
		return Curve25519(), nil
	default:
		return nil, fmt.Errorf("unknown key suite %q", name)
	}
}
