package wallet

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorSecureContextRequired      ErrorCode = "ERROR_SECURE_CONTEXT_REQUIRED"
	ErrorSessionClosed              ErrorCode = "ERROR_SESSION_CLOSED"
	ErrorSessionEstablishmentFailed ErrorCode = "ERROR_SESSION_ESTABLISHMENT_FAILED"
	ErrorWalletNotFound             ErrorCode = "ERROR_WALLET_NOT_FOUND"
	ErrorForbiddenWalletBaseURL     ErrorCode = "ERROR_FORBIDDEN_WALLET_BASE_URL"
)

// Error is a session-level failure. Use errors.Is against the Err* values to match on Code.
type Error struct {
	Code ErrorCode

	// Set for ErrorSessionEstablishmentFailed
	Port uint16

	// Set for ErrorSessionClosed
	CloseCode int
	Reason    string

	Err error
}

func (e *Error) Error() string {
	var msg string

	switch e.Code {
	case ErrorSessionClosed:
		msg = fmt.Sprintf("%s: code %d, reason %q", e.Code, e.CloseCode, e.Reason)
	case ErrorSessionEstablishmentFailed:
		msg = fmt.Sprintf("%s: failed to connect to the wallet websocket on port %d", e.Code, e.Port)
	default:
		msg = string(e.Code)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrSecureContextRequired      = &Error{Code: ErrorSecureContextRequired}
	ErrSessionClosed              = &Error{Code: ErrorSessionClosed}
	ErrSessionEstablishmentFailed = &Error{Code: ErrorSessionEstablishmentFailed}
	ErrWalletNotFound             = &Error{Code: ErrorWalletNotFound}
	ErrForbiddenWalletBaseURL     = &Error{Code: ErrorForbiddenWalletBaseURL}
)

var (
	ErrInvalidSequence       = errors.New("invalid sequence number")
	ErrUnknownResponseID     = errors.New("response for unknown request id")
	ErrDecrypt               = errors.New("could not decrypt frame")
	ErrCapabilitiesImmutable = errors.New("wallet capabilities cannot be defined or removed")
	ErrInvalidTransition     = errors.New("invalid session state transition")
	ErrCallerExited          = errors.New("session logic returned")
)

func closedError(code int, reason string) *Error {
	return &Error{Code: ErrorSessionClosed, CloseCode: code, Reason: reason}
}
