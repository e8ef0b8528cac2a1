package wallet

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

type caller interface {
	call(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// Wallet is the handle caller logic gets inside Transact.
//
// Capabilities are looked up by camelCase name and created on first use; the set cannot be changed.
type Wallet struct {
	c caller

	mu   sync.Mutex
	caps map[string]*Capability
}

func newWallet(c caller) *Wallet {
	return &Wallet{c: c, caps: make(map[string]*Capability)}
}

// Capability returns the same *Capability for the same name, for the lifetime of the session.
func (w *Wallet) Capability(name string) *Capability {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.caps[name]
	if !ok {
		c = &Capability{c: w.c, name: name, method: MethodName(name)}
		w.caps[name] = c
	}

	return c
}

// Invoke calls capability name with params, and returns the raw result.
func (w *Wallet) Invoke(ctx context.Context, name string, params any) (json.RawMessage, error) {
	return w.Capability(name).Call(ctx, params)
}

func (w *Wallet) Define(string, *Capability) error {
	return ErrCapabilitiesImmutable
}

func (w *Wallet) Remove(string) error {
	return ErrCapabilitiesImmutable
}

type Capability struct {
	c caller

	name   string
	method string
}

func (c *Capability) Name() string {
	return c.name
}

// Method is the wire method name.
func (c *Capability) Method() string {
	return c.method
}

func (c *Capability) Call(ctx context.Context, params any) (json.RawMessage, error) {
	if params == nil {
		params = struct{}{}
	}
	return c.c.call(ctx, c.method, params)
}

// MethodName turns signAndSendTransactions into sign_and_send_transactions.
//
// An underscore goes before every ASCII uppercase letter, including a leading one,
// then the whole name is lower-cased.
func MethodName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i := 0; i < len(name); i++ {
		if ch := name[i]; ch >= 'A' && ch <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteByte(name[i])
	}

	return strings.ToLower(b.String())
}
