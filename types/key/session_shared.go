package key

import (
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/edup2p/mwa/types"
)

// SessionShared is the symmetric secret of one session.
type SessionShared struct {
	_    types.Incomparable
	aead cipher.AEAD
}

// DeriveShared runs key agreement between priv and peer, and expands the result with
// HKDF-SHA256, salted with the association public key.
//
// Both ends of a session derive the same SessionShared.
func DeriveShared(priv EphemeralPrivate, peer EphemeralPublic, assoc AssociationPublic) (SessionShared, error) {
	if priv.IsZero() || peer.IsZero() || assoc.IsZero() {
		panic("can't compute shared secret with zero keys")
	}

	ikm, err := priv.agree(peer)
	if err != nil {
		return SessionShared{}, fmt.Errorf("key agreement failed: %w", err)
	}

	secret := make([]byte, priv.suite.sharedKeyLen())
	if _, err = io.ReadFull(hkdf.New(sha256.New, ikm, assoc.Bytes(), nil), secret); err != nil {
		return SessionShared{}, fmt.Errorf("key derivation failed: %w", err)
	}

	aead, err := priv.suite.newAEAD(secret)
	if err != nil {
		return SessionShared{}, fmt.Errorf("could not create cipher: %w", err)
	}

	return SessionShared{aead: aead}, nil
}

func (k SessionShared) IsZero() bool {
	return k.aead == nil
}

// Seal encrypts and authenticates cleartext and additional, using a random nonce.
//
// The returned ciphertext is the nonce concatenated with the sealed box.
func (k SessionShared) Seal(additional, cleartext []byte) (ciphertext []byte) {
	if k.IsZero() {
		panic("can't seal with zero key")
	}
	nonce := make([]byte, k.aead.NonceSize(), k.aead.NonceSize()+len(cleartext)+k.aead.Overhead())
	rand(nonce)
	return k.aead.Seal(nonce, nonce, cleartext, additional)
}

// Open opens ciphertext, which must be a value created by Seal with the same
// additional data, and returns the inner cleartext.
func (k SessionShared) Open(additional, ciphertext []byte) (cleartext []byte, ok bool) {
	if k.IsZero() {
		panic("can't open with zero key")
	}
	ns := k.aead.NonceSize()
	if len(ciphertext) < ns+k.aead.Overhead() {
		return nil, false
	}
	cleartext, err := k.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], additional)
	if err != nil {
		return nil, false
	}
	return cleartext, true
}
