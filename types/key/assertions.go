package key

import "encoding"

type canTextMarshal interface {
	// We need text encoding to put keys in JSON and config files

	encoding.TextMarshaler
	encoding.TextUnmarshaler
}

var (
	_ Suite = p256Suite{}
	_ Suite = curve25519Suite{}

	_ canTextMarshal = &AssociationPublic{}
	_ canTextMarshal = &EphemeralPublic{}
)
