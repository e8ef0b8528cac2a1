package key

import "github.com/edup2p/mwa/types"

// AssociationPrivate is the per-session identity key. It signs the hello request,
// and its public half is handed to the wallet out of band.
type AssociationPrivate struct {
	_     types.Incomparable
	suite Suite
	sign  func(msg []byte) ([]byte, error)
	pub   AssociationPublic
}

// IsZero reports whether k is the zero value.
func (k AssociationPrivate) IsZero() bool {
	return k.sign == nil
}

// Public returns the AssociationPublic for k.
// Panics if AssociationPrivate is zero.
func (k AssociationPrivate) Public() AssociationPublic {
	if k.IsZero() {
		panic("can't take the public key of a zero AssociationPrivate")
	}
	return k.pub
}

// Sign signs msg, the signature has the fixed length given by the suite.
func (k AssociationPrivate) Sign(msg []byte) ([]byte, error) {
	if k.IsZero() {
		panic("can't sign with a zero AssociationPrivate")
	}
	return k.sign(msg)
}

func (k AssociationPrivate) Suite() Suite {
	return k.suite
}
