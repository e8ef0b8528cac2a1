package types

// Contains miscellaneous functions and types

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
)

// Incomparable is a zero-width incomparable type. If added as the
// first field in a struct, it marks that struct as not comparable
// (can't do == or be a map key) and usually doesn't add any width to
// the struct (unless the struct has only small fields).
//
// (Taken from the tailscale types library)
type Incomparable [0]func()

// IsContextDone does a quick check on a context to see if its dead.
func IsContextDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// RandHex returns a random hexadecimal string of length n.
func RandHex(n int) string {
	b := make([]byte, (n+1)/2)

	if _, err := rand.Read(b); err != nil {
		panic(err)
	}

	return hex.EncodeToString(b)[:n]
}

// LevelTrace is below debug, used for per-frame logging.
const LevelTrace slog.Level = -8
