package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edup2p/mwa/types"
	"github.com/edup2p/mwa/types/msgrpc"
)

// session is the state of one Transact call.
//
// st and the inbound half of ch are owned by the goroutine running the event loop,
// call may be used from any goroutine once the session is connected.
type session struct {
	ctx context.Context
	ccc context.CancelCauseFunc

	cfg *Config
	log *slog.Logger

	st   sessionState
	sock *socket
	ch   *channel

	pending *pendingTable

	teardownOnce sync.Once
}

func newSession(parentCtx context.Context, cfg *Config) *session {
	ctx, ccc := context.WithCancelCause(parentCtx)

	log := cfg.Logger.With("session", types.RandHex(8), "port", cfg.Dial.Port)

	s := &session{
		ctx: ctx,
		ccc: ccc,

		cfg: cfg,
		log: log,

		sock: newSocket(ctx, cfg.Dial, cfg.Dialer, log, cfg.Metrics),

		pending: newPendingTable(),
	}

	context.AfterFunc(s.ctx, s.sock.dispose)

	return s
}

// handle processes one socket event, and reports whether the session just became connected.
func (s *session) handle(ev event) (bool, error) {
	if !s.sock.current(ev.gen) {
		s.log.Log(s.ctx, types.LevelTrace, "dropping stale event", "kind", ev.kind, "gen", ev.gen)
		return false, nil
	}

	switch ev.kind {
	case eventOpen:
		return false, s.onOpen()
	case eventError:
		return false, s.sock.retry(ev.err)
	case eventClose:
		return false, s.onClose(ev)
	case eventMessage:
		return s.onMessage(ev.data)
	default:
		return false, fmt.Errorf("unknown socket event %d", ev.kind)
	}
}

func (s *session) onClose(ev event) error {
	closed := closedError(ev.code, ev.reason)
	wasConnected := s.st.state == StateConnected

	s.st.disconnected()
	s.sock.dispose()

	if ev.clean() && wasConnected {
		s.log.Info("wallet closed the session", "reason", ev.reason)
		s.pending.failAll(closed)
		return nil
	}

	return closed
}

func (s *session) onMessage(b []byte) (bool, error) {
	switch s.st.state {
	case StateHelloSent:
		if err := s.onHelloResponse(b); err != nil {
			return false, err
		}
		return true, nil
	case StateConnected:
		return false, s.onFrame(b)
	default:
		s.log.Warn("dropping message received while not connected", "state", s.st.state)
		return false, nil
	}
}

func (s *session) onFrame(b []byte) error {
	plaintext, err := s.ch.open(b)
	if err != nil {
		return err
	}

	s.cfg.Metrics.frameIn()

	resp, err := msgrpc.ParseResponse(plaintext)
	if err != nil {
		return err
	}

	sl, ok := s.pending.take(resp.ID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownResponseID, resp.ID)
	}

	if err := resp.Err(); err != nil {
		sl.settle(result{err: err})
	} else {
		sl.settle(result{raw: resp.Result})
	}

	return nil
}

// call sends one request and waits for its response.
func (s *session) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	start := time.Now()

	id, sl, err := s.pending.register()
	if err != nil {
		return nil, err
	}

	b, err := msgrpc.NewRequest(id, method, params).Marshal()
	if err != nil {
		s.pending.take(id)
		return nil, fmt.Errorf("could not encode %s request: %w", method, err)
	}

	if err := s.ch.send(b, s.sock.send); err != nil {
		s.pending.take(id)
		return nil, fmt.Errorf("could not send %s request: %w", method, err)
	}

	s.cfg.Metrics.frameOut()
	s.log.Debug("request sent", "id", id, "method", method)

	select {
	case r := <-sl.ch:
		s.cfg.Metrics.call(method, start, r.err)
		return r.raw, r.err
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}
}

// teardown releases everything the session holds, only the first call has effect.
func (s *session) teardown(cause error) {
	s.teardownOnce.Do(func() {
		s.log.Debug("tearing down session", "cause", cause, "pending", s.pending.len())

		s.ccc(cause)
		s.sock.dispose()
		s.pending.failAll(cause)
		s.st.disconnected()
	})
}
