// Package msgrpc contains the JSON-RPC 2.0 messages that travel inside encrypted frames.
package msgrpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

const Version = "2.0"

// Wallet error codes, carried in ResponseError.Code.
const (
	ErrorAuthorizationFailed = -1
	ErrorInvalidPayloads     = -2
	ErrorNotSigned           = -3
	ErrorNotSubmitted        = -4
	ErrorTooManyPayloads     = -5
	ErrorAttestOriginAndroid = -100

	ErrorInternal = -32603
)

var ErrMalformedResponse = errors.New("malformed json-rpc response")

// Request is an outbound call.
type Request struct {
	ID      uint64 `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

func NewRequest(id uint64, method string, params any) *Request {
	return &Request{ID: id, JSONRPC: Version, Method: method, Params: params}
}

func (r *Request) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

type ResponseError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Response is an inbound reply, exactly one of Result and Error is set.
type Response struct {
	ID      uint64          `json:"id"`
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// ParseResponse decodes a response, it does not look at whether the id is expected.
func ParseResponse(data []byte) (*Response, error) {
	var raw struct {
		ID     *uint64         `json:"id"`
		Result json.RawMessage `json:"result"`
		Error  *ResponseError  `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if raw.ID == nil {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedResponse)
	}
	if raw.Error == nil && raw.Result == nil {
		return nil, fmt.Errorf("%w: neither result nor error in response %d", ErrMalformedResponse, *raw.ID)
	}

	return &Response{ID: *raw.ID, JSONRPC: Version, Result: raw.Result, Error: raw.Error}, nil
}

// ProtocolError is an error response from the wallet for one request.
type ProtocolError struct {
	ID      uint64
	Code    int
	Message string
	Data    json.RawMessage
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wallet error %d on request %d: %s", e.Code, e.ID, e.Message)
}

// Err returns the response's error as a *ProtocolError, or nil when it succeeded.
func (r *Response) Err() error {
	if r.Error == nil {
		return nil
	}
	return &ProtocolError{ID: r.ID, Code: r.Error.Code, Message: r.Error.Message, Data: r.Error.Data}
}
