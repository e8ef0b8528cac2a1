package wallet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LukaGiorgadze/gonull"
)

// AppIdentity describes the dapp to the wallet.
type AppIdentity struct {
	URI  gonull.Nullable[string] `json:"uri"`
	Icon gonull.Nullable[string] `json:"icon"`
	Name gonull.Nullable[string] `json:"name"`
}

type AuthorizeParams struct {
	Identity AppIdentity `json:"identity"`

	// e.g. solana:mainnet
	Chain gonull.Nullable[string] `json:"chain"`

	// When valid, asks the wallet to reuse an earlier authorization.
	AuthToken gonull.Nullable[string] `json:"auth_token"`

	Features  []string `json:"features,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

type Account struct {
	// Raw public key, base64 on the wire.
	Address []byte `json:"address"`

	Label    gonull.Nullable[string] `json:"label"`
	Icon     gonull.Nullable[string] `json:"icon"`
	Chains   []string                `json:"chains,omitempty"`
	Features []string                `json:"features,omitempty"`
}

type AuthorizationResult struct {
	Accounts      []Account               `json:"accounts"`
	AuthToken     string                  `json:"auth_token"`
	WalletURIBase gonull.Nullable[string] `json:"wallet_uri_base"`
}

type Capabilities struct {
	MaxTransactionsPerRequest    gonull.Nullable[int] `json:"max_transactions_per_request"`
	MaxMessagesPerRequest        gonull.Nullable[int] `json:"max_messages_per_request"`
	SupportedTransactionVersions []json.RawMessage    `json:"supported_transaction_versions"`
	Features                     []string             `json:"features"`
}

type SendOptions struct {
	MinContextSlot gonull.Nullable[int64]  `json:"min_context_slot"`
	Commitment     gonull.Nullable[string] `json:"commitment"`
	SkipPreflight  gonull.Nullable[bool]   `json:"skip_preflight"`
	MaxRetries     gonull.Nullable[int]    `json:"max_retries"`
	WaitForCommit  gonull.Nullable[bool]   `json:"wait_for_commitment_to_send_next_transaction"`
}

func invoke[R any](ctx context.Context, w *Wallet, name string, params any) (*R, error) {
	raw, err := w.Invoke(ctx, name, params)
	if err != nil {
		return nil, err
	}

	r := new(R)
	if err := json.Unmarshal(raw, r); err != nil {
		return nil, fmt.Errorf("could not decode %s result: %w", MethodName(name), err)
	}

	return r, nil
}

func (w *Wallet) Authorize(ctx context.Context, p AuthorizeParams) (*AuthorizationResult, error) {
	return invoke[AuthorizationResult](ctx, w, "authorize", p)
}

func (w *Wallet) Reauthorize(ctx context.Context, identity AppIdentity, authToken string) (*AuthorizationResult, error) {
	return invoke[AuthorizationResult](ctx, w, "reauthorize", struct {
		Identity  AppIdentity `json:"identity"`
		AuthToken string      `json:"auth_token"`
	}{identity, authToken})
}

func (w *Wallet) Deauthorize(ctx context.Context, authToken string) error {
	_, err := w.Invoke(ctx, "deauthorize", struct {
		AuthToken string `json:"auth_token"`
	}{authToken})
	return err
}

func (w *Wallet) GetCapabilities(ctx context.Context) (*Capabilities, error) {
	return invoke[Capabilities](ctx, w, "getCapabilities", nil)
}

func (w *Wallet) SignTransactions(ctx context.Context, payloads [][]byte) ([][]byte, error) {
	r, err := invoke[struct {
		SignedPayloads [][]byte `json:"signed_payloads"`
	}](ctx, w, "signTransactions", struct {
		Payloads [][]byte `json:"payloads"`
	}{payloads})
	if err != nil {
		return nil, err
	}
	return r.SignedPayloads, nil
}

// SignAndSendTransactions returns one signature per payload.
func (w *Wallet) SignAndSendTransactions(ctx context.Context, payloads [][]byte, opts SendOptions) ([][]byte, error) {
	r, err := invoke[struct {
		Signatures [][]byte `json:"signatures"`
	}](ctx, w, "signAndSendTransactions", struct {
		Payloads [][]byte    `json:"payloads"`
		Options  SendOptions `json:"options"`
	}{payloads, opts})
	if err != nil {
		return nil, err
	}
	return r.Signatures, nil
}

func (w *Wallet) SignMessages(ctx context.Context, addresses, payloads [][]byte) ([][]byte, error) {
	r, err := invoke[struct {
		SignedPayloads [][]byte `json:"signed_payloads"`
	}](ctx, w, "signMessages", struct {
		Addresses [][]byte `json:"addresses"`
		Payloads  [][]byte `json:"payloads"`
	}{addresses, payloads})
	if err != nil {
		return nil, err
	}
	return r.SignedPayloads, nil
}
