package wallet

import (
	"fmt"

	"github.com/edup2p/mwa/types/hello"
)

// onOpen sends the hello request on a freshly opened socket.
func (s *session) onOpen() error {
	if s.st.state != StateConnecting {
		s.log.Warn("socket opened while not connecting, ignoring", "state", s.st.state)
		return nil
	}

	eph, err := s.cfg.Suite.NewEphemeral()
	if err != nil {
		return fmt.Errorf("could not generate ephemeral keypair: %w", err)
	}

	req, err := hello.CreateRequest(eph.Public(), s.st.assocPriv)
	if err != nil {
		return fmt.Errorf("could not create hello request: %w", err)
	}

	if err := s.sock.send(req); err != nil {
		return fmt.Errorf("could not send hello request: %w", err)
	}

	s.log.Debug("hello request sent", "ephemeral", eph.Public().Debug())

	return s.st.helloSent(eph)
}

// onHelloResponse derives the session secret from the wallet's first frame.
func (s *session) onHelloResponse(b []byte) error {
	shared, err := hello.ParseResponse(b, s.st.assocPub, s.st.ephPriv)
	if err != nil {
		return err
	}

	if err := s.st.connected(shared); err != nil {
		return err
	}

	s.ch = newChannel(shared)

	s.log.Info("session established")

	return nil
}
