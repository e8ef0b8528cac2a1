package key

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"go4.org/mem"
)

const assocPublicHexPrefix = "assocpub:"

// AssociationPublic is the encoded public half of an AssociationPrivate.
type AssociationPublic struct {
	raw string
}

func (p AssociationPublic) IsZero() bool {
	return p.raw == ""
}

func (p AssociationPublic) Bytes() []byte {
	return []byte(p.raw)
}

// Token is the association token carried in the association URL.
func (p AssociationPublic) Token() string {
	return base64.RawURLEncoding.EncodeToString([]byte(p.raw))
}

func (p AssociationPublic) Debug() string {
	return fmt.Sprintf("%x", p.raw)
}

func (p AssociationPublic) HexString() string {
	return hex.EncodeToString([]byte(p.raw))
}

// AppendText implements encoding.TextAppender.
func (p AssociationPublic) AppendText(b []byte) ([]byte, error) {
	return appendHexKey(b, assocPublicHexPrefix, []byte(p.raw)), nil
}

// MarshalText implements encoding.TextMarshaler.
func (p AssociationPublic) MarshalText() ([]byte, error) {
	return p.AppendText(nil)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *AssociationPublic) UnmarshalText(b []byte) error {
	raw, err := parseHex(mem.B(b), mem.S(assocPublicHexPrefix))
	if err != nil {
		return err
	}
	p.raw = string(raw)
	return nil
}
