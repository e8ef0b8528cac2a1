package wallet

import (
	"fmt"

	"github.com/edup2p/mwa/types/key"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateHelloSent
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateHelloSent:
		return "hello_req_sent"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// sessionState only holds the key material its current State needs.
type sessionState struct {
	state State

	// connecting
	assocPriv key.AssociationPrivate

	// hello_req_sent
	assocPub key.AssociationPublic
	ephPriv  key.EphemeralPrivate

	// connected
	shared key.SessionShared
}

func (s *sessionState) expect(want State) error {
	if s.state != want {
		return fmt.Errorf("%w: in state %s, expected %s", ErrInvalidTransition, s.state, want)
	}
	return nil
}

func (s *sessionState) connecting(assoc key.AssociationPrivate) error {
	if err := s.expect(StateDisconnected); err != nil {
		return err
	}

	*s = sessionState{state: StateConnecting, assocPriv: assoc}
	return nil
}

func (s *sessionState) helloSent(eph key.EphemeralPrivate) error {
	if err := s.expect(StateConnecting); err != nil {
		return err
	}

	*s = sessionState{state: StateHelloSent, assocPub: s.assocPriv.Public(), ephPriv: eph}
	return nil
}

func (s *sessionState) connected(shared key.SessionShared) error {
	if err := s.expect(StateHelloSent); err != nil {
		return err
	}

	*s = sessionState{state: StateConnected, shared: shared}
	return nil
}

func (s *sessionState) disconnected() {
	*s = sessionState{state: StateDisconnected}
}
