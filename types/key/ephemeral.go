package key

import (
	"encoding/hex"
	"fmt"

	"go4.org/mem"

	"github.com/edup2p/mwa/types"
)

const ephPublicHexPrefix = "ephpub:"

// EphemeralPrivate is a one-time key agreement key, only used to derive a SessionShared.
type EphemeralPrivate struct {
	_     types.Incomparable
	suite Suite
	agree func(peer EphemeralPublic) ([]byte, error)
	pub   EphemeralPublic
}

func (k EphemeralPrivate) IsZero() bool {
	return k.agree == nil
}

// Public returns the EphemeralPublic for k.
// Panics if EphemeralPrivate is zero.
func (k EphemeralPrivate) Public() EphemeralPublic {
	if k.IsZero() {
		panic("can't take the public key of a zero EphemeralPrivate")
	}
	return k.pub
}

func (k EphemeralPrivate) Suite() Suite {
	return k.suite
}

type EphemeralPublic struct {
	raw string
}

func (p EphemeralPublic) IsZero() bool {
	return p.raw == ""
}

func (p EphemeralPublic) Bytes() []byte {
	return []byte(p.raw)
}

func (p EphemeralPublic) Debug() string {
	return fmt.Sprintf("%x", p.raw)
}

func (p EphemeralPublic) HexString() string {
	return hex.EncodeToString([]byte(p.raw))
}

func (p EphemeralPublic) AppendText(b []byte) ([]byte, error) {
	return appendHexKey(b, ephPublicHexPrefix, []byte(p.raw)), nil
}

func (p EphemeralPublic) MarshalText() ([]byte, error) {
	return p.AppendText(nil)
}

func (p *EphemeralPublic) UnmarshalText(b []byte) error {
	raw, err := parseHex(mem.B(b), mem.S(ephPublicHexPrefix))
	if err != nil {
		return err
	}
	p.raw = string(raw)
	return nil
}
